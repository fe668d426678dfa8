package medialog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	handler.RegisterRoutes(api)

	return r
}

func postEntry(t *testing.T, router *gin.Engine, body CreateEntryRequest) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/api/medialog", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateEntry(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postEntry(t, router, CreateEntryRequest{
		Category: "Anime",
		Title:    "Some Show",
		Progress: "ep 4",
		Status:   models.StatusCurrently,
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.MediaLogEntry
	json.Unmarshal(resp.Body.Bytes(), &entry)
	if entry.Category != models.CategoryAnime {
		t.Errorf("Expected normalized category 'anime', got %q", entry.Category)
	}
	if entry.Status != models.StatusCurrently {
		t.Errorf("Expected status 'currently', got %q", entry.Status)
	}
}

func TestCreateEntryDefaultsStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postEntry(t, router, CreateEntryRequest{Category: "books", Title: "Some Book"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.MediaLogEntry
	json.Unmarshal(resp.Body.Bytes(), &entry)
	if entry.Status != models.StatusPlanToStart {
		t.Errorf("Expected default status 'plan_to_start', got %q", entry.Status)
	}
}

func TestCreateEntryInvalidCategory(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postEntry(t, router, CreateEntryRequest{Category: "podcasts", Title: "x"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestCreateEntryInvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postEntry(t, router, CreateEntryRequest{Category: "games", Title: "x", Status: "dropped"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestListEntriesByCategory(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	postEntry(t, router, CreateEntryRequest{Category: "anime", Title: "Show A"})
	postEntry(t, router, CreateEntryRequest{Category: "anime", Title: "Show B"})
	postEntry(t, router, CreateEntryRequest{Category: "games", Title: "Game C"})

	req, _ := http.NewRequest("GET", "/api/medialog?category=anime", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var entries []models.MediaLogEntry
	json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}

	// Unknown category filter falls back to the full list
	req, _ = http.NewRequest("GET", "/api/medialog?category=bogus", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries for unknown category, got %d", len(entries))
	}
}

func TestUpdateEntry(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	postEntry(t, router, CreateEntryRequest{Category: "tv", Title: "Show"})

	progress := "s2e3"
	body := UpdateEntryRequest{Progress: &progress, Status: models.StatusCompleted}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("PATCH", "/api/medialog/1", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.MediaLogEntry
	db.First(&entry, 1)
	if entry.Progress != "s2e3" {
		t.Errorf("Expected progress 's2e3', got %q", entry.Progress)
	}
	if entry.Status != models.StatusCompleted {
		t.Errorf("Expected status 'completed', got %q", entry.Status)
	}
	if entry.Title != "Show" {
		t.Errorf("Expected title unchanged, got %q", entry.Title)
	}
}

func TestUpdateEntryNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	body := UpdateEntryRequest{Status: models.StatusCompleted}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("PATCH", "/api/medialog/999", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestDeleteEntry(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	postEntry(t, router, CreateEntryRequest{Category: "movies", Title: "Film"})

	req, _ := http.NewRequest("DELETE", "/api/medialog/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	req, _ = http.NewRequest("DELETE", "/api/medialog/1", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on re-delete, got %d", resp.Code)
	}
}
