package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/semzi/sledge/internal/models"
)

type fakeStore struct {
	items       []models.ScheduleItem
	deleteCalls int
	nextID      int64
}

func (f *fakeStore) List(_ context.Context) ([]models.ScheduleItem, error) {
	return f.items, nil
}

func (f *fakeStore) Create(_ context.Context, it *models.ScheduleItem) error {
	f.nextID++
	it.ID = f.nextID
	f.items = append(f.items, *it)
	return nil
}

func (f *fakeStore) Update(_ context.Context, it *models.ScheduleItem) error {
	for i := range f.items {
		if f.items[i].ID == it.ID {
			f.items[i] = *it
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.deleteCalls++
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/api/schedule", h.List)
	r.POST("/api/schedule", h.Create)
	r.PUT("/api/schedule/:id", h.Update)
	r.DELETE("/api/schedule/:id", h.Delete)
	return r
}

func TestDeleteRejectsNonNumericID(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/schedule/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "invalid schedule id" {
		t.Fatalf("message = %q", body["message"])
	}
	if store.deleteCalls != 0 {
		t.Fatalf("repository Delete called %d times, want 0", store.deleteCalls)
	}
}

func TestDeleteRejectsNonPositiveID(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store)

	for _, id := range []string{"0", "-5"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/schedule/"+id, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("id %s: status = %d, want 400", id, w.Code)
		}
	}
	if store.deleteCalls != 0 {
		t.Fatalf("repository Delete called %d times, want 0", store.deleteCalls)
	}
}

func TestCreateThenListAndDelete(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store)

	item := ItemRequest{Week: 1, Theme: "Energy Fundamentals", Facilitator: "Dr. A", TentativeDate: "Jan 10"}
	raw, _ := json.Marshal(item)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		Items []models.ScheduleItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Theme != "Energy Fundamentals" {
		t.Fatalf("items = %+v", list.Items)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/schedule/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if len(store.items) != 0 {
		t.Fatalf("items after delete = %+v", store.items)
	}
}

func TestCreateRequiresWeekAndTheme(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store)

	raw, _ := json.Marshal(ItemRequest{Week: 0, Theme: ""})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
