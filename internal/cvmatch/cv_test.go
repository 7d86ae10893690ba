package cvmatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), zap.NewNop(), "test-token")
	client.APIURL = server.URL

	return client
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	return path
}

func TestUploadCVSendsMultipartWithBearerToken(t *testing.T) {
	var gotAuth, gotContentType string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")

		if r.URL.Path != "/api/cvs/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Filename != "candidate.pdf" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}

		body, _ := io.ReadAll(file)
		if string(body) != "%PDF-1.4 fake" {
			t.Errorf("unexpected file body: %q", body)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 42,
			"extracted_data": map[string]any{
				"nom_complet": "Jane Doe",
				"email":       nil,
				"competences": []string{"React", "React", "SQL"},
				"experience": []map[string]any{
					{"periode": "2020-2023", "description": "Backend work"},
				},
				"contenu_texte": "Jane Doe backend engineer",
			},
		})
	})

	path := writeTempFile(t, "candidate.pdf", []byte("%PDF-1.4 fake"))

	upload, err := client.UploadCV(path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotContentType == "" || gotContentType == "application/json" {
		t.Fatalf("expected multipart content type, got %q", gotContentType)
	}

	if upload.ID != 42 {
		t.Fatalf("expected id 42, got %d", upload.ID)
	}
	if upload.ExtractedData.NomComplet == nil || *upload.ExtractedData.NomComplet != "Jane Doe" {
		t.Fatalf("unexpected nom_complet: %v", upload.ExtractedData.NomComplet)
	}
	if upload.ExtractedData.Email != nil {
		t.Fatalf("expected nil email, got %v", *upload.ExtractedData.Email)
	}
	if len(upload.ExtractedData.Competences) != 3 {
		t.Fatalf("competences must arrive as extracted, got %v", upload.ExtractedData.Competences)
	}

	entries, err := upload.ExtractedData.ExperienceEntries()
	if err != nil {
		t.Fatalf("experience entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Periode != "2020-2023" {
		t.Fatalf("unexpected experience entries: %v", entries)
	}
}

func TestUploadCVNonSuccessStatusIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	path := writeTempFile(t, "candidate.pdf", []byte("%PDF-1.4"))

	if _, err := client.UploadCV(path); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestUpdateCVDataSendsNullsForEmptyFields(t *testing.T) {
	var got map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/api/cvs/42/update-data" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}

		w.WriteHeader(http.StatusOK)
	})

	name := "Jane Doe"
	err := client.UpdateCVData(42, &CVUpdate{
		CVID:                 42,
		NomComplet:           &name,
		CompetencesExtraites: []string{"React", "SQL"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got["nom_complet"] != "Jane Doe" {
		t.Fatalf("unexpected nom_complet: %v", got["nom_complet"])
	}
	if got["email_cv"] != nil {
		t.Fatalf("empty email must be sent as null, got %v", got["email_cv"])
	}
	if got["telephone_cv"] != nil {
		t.Fatalf("empty telephone must be sent as null, got %v", got["telephone_cv"])
	}
}

func TestGetMyCVsHelpers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cvs/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "nom_fichier": "cv_one.pdf", "date_upload": "2024-11-15T10:00:00"},
			{"id": 2, "nom_fichier": "cv_two.pdf", "date_upload": "2024-11-16T10:00:00"},
		})
	})

	cvs, err := client.GetMyCVs()
	if err != nil {
		t.Fatalf("get my cvs: %v", err)
	}

	if cvs.Len() != 2 {
		t.Fatalf("expected 2 cvs, got %d", cvs.Len())
	}
	if cvs.FindByID(2) == nil || cvs.FindByID(2).NomFichier != "cv_two.pdf" {
		t.Fatalf("FindByID(2) failed: %v", cvs.FindByID(2))
	}
	if cvs.FindByID(99) != nil {
		t.Fatal("FindByID must return nil for unknown id")
	}
	if names := cvs.Filenames(); len(names) != 2 || names[0] != "cv_one.pdf" {
		t.Fatalf("unexpected filenames: %v", names)
	}
}

func TestDeleteCV(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/cvs/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteCV(7); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestLoginInstallsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		if body["email"] != "jane@example.com" || body["mot_de_passe"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}

		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token", "token_type": "bearer"})
	})
	client.token = ""

	token, err := client.Login("jane@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if token != "fresh-token" {
		t.Fatalf("unexpected token: %s", token)
	}
	if client.token != "fresh-token" {
		t.Fatal("token must be installed on the client")
	}
}
