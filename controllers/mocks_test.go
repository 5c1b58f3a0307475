package controllers_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sugarplum-bakes/orders-api/repository"
)

// memStore is an in-memory Store used by handler tests.
type memStore struct {
	collections map[string]map[string]bson.M
	saveErr     error
	findErr     error
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[string]map[string]bson.M)}
}

func (m *memStore) coll(name string) map[string]bson.M {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]bson.M)
		m.collections[name] = c
	}
	return c
}

func (m *memStore) Save(_ context.Context, collection, id string, doc bson.M) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.coll(collection)[id] = doc
	return nil
}

func (m *memStore) FindByID(_ context.Context, collection, id string) (bson.M, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (m *memStore) FindByUser(_ context.Context, collection, userID string) ([]repository.Document, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var docs []repository.Document
	for id, doc := range m.coll(collection) {
		if uid, _ := doc["user_id"].(string); uid == userID {
			docs = append(docs, repository.Document{ID: id, Fields: doc})
		}
	}
	sortNewestFirst(docs)
	return docs, nil
}

func (m *memStore) FindAll(_ context.Context, collection string) ([]repository.Document, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var docs []repository.Document
	for id, doc := range m.coll(collection) {
		docs = append(docs, repository.Document{ID: id, Fields: doc})
	}
	sortNewestFirst(docs)
	return docs, nil
}

func (m *memStore) UpdateFields(_ context.Context, collection, id string, fields bson.M) error {
	doc, ok := m.coll(collection)[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func sortNewestFirst(docs []repository.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docMillis(docs[i].Fields["created_at"]) > docMillis(docs[j].Fields["created_at"])
	})
}

func docMillis(v interface{}) int64 {
	switch t := v.(type) {
	case primitive.DateTime:
		return int64(t)
	case time.Time:
		return t.UnixMilli()
	}
	return 0
}

// memUploader records uploads and returns a canned URL.
type memUploader struct {
	uploadedName string
	err          error
}

func (u *memUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	u.uploadedName = filename
	return "https://bakeshop.test/uploads/1700000000_" + filename, nil
}

// memNotifier captures status emails on a channel so async sends can be
// awaited.
type memNotifier struct {
	sent chan [3]string
}

func newMemNotifier() *memNotifier {
	return &memNotifier{sent: make(chan [3]string, 4)}
}

func (n *memNotifier) SendStatusUpdateEmail(toEmail, orderID, status string) error {
	n.sent <- [3]string{toEmail, orderID, status}
	return nil
}

var errUpstream = errors.New("upstream failure")
