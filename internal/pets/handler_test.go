package pets_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/bootstrap"
	"pethub-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("register expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out.Token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type petResponse struct {
	ID           string `json:"id"`
	OwnerID      string `json:"ownerId"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Breed        string `json:"breed"`
	ProfileImage struct {
		FileID   *string `json:"fileId"`
		Filename *string `json:"filename"`
	} `json:"profileImage"`
	WeightTrend []struct {
		ID     string  `json:"id"`
		Weight float64 `json:"weight"`
	} `json:"weightTrend"`
	VaccinationHistory []struct {
		ID      string `json:"id"`
		Vaccine string `json:"vaccine"`
	} `json:"vaccinationHistory"`
}

func createPet(t *testing.T, router *gin.Engine, token, name string, age int, breed string) petResponse {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"age":%d,"breed":%q}`, name, age, breed)
	resp := doJSON(t, router, http.MethodPost, "/api/pets/create", token, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create pet expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var pet petResponse
	if err := json.NewDecoder(resp.Body).Decode(&pet); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	if pet.ID == "" {
		t.Fatalf("expected pet id")
	}
	return pet
}

func TestPetCRUD(t *testing.T) {
	router := newTestApp(t)
	token := registerUser(t, router, "owner@example.com")

	pet := createPet(t, router, token, "Rex", 3, "Labrador")

	// Listing shows the pet.
	list := doJSON(t, router, http.MethodGet, "/api/pets/user", token, "")
	if list.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d", list.Code)
	}
	var pets []petResponse
	if err := json.NewDecoder(list.Body).Decode(&pets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(pets) != 1 || pets[0].Name != "Rex" {
		t.Fatalf("expected one pet named Rex, got %+v", pets)
	}

	// Partial update keeps unspecified fields.
	upd := doJSON(t, router, http.MethodPut, "/api/pets/"+pet.ID, token, `{"age":4}`)
	if upd.Code != http.StatusOK {
		t.Fatalf("update expected 200, got %d: %s", upd.Code, upd.Body.String())
	}
	var updated petResponse
	if err := json.NewDecoder(upd.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated pet: %v", err)
	}
	if updated.Age != 4 || updated.Name != "Rex" || updated.Breed != "Labrador" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// Empty name is rejected.
	bad := doJSON(t, router, http.MethodPost, "/api/pets/create", token, `{"name":"  ","age":1}`)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("blank name expected 400, got %d", bad.Code)
	}

	// Delete, then the pet is gone.
	del := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID, token, "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete expected 200, got %d", del.Code)
	}
	gone := doJSON(t, router, http.MethodGet, "/api/pets/"+pet.ID, token, "")
	if gone.Code != http.StatusNotFound {
		t.Fatalf("deleted pet expected 404, got %d", gone.Code)
	}
}

func TestPetOwnershipIsEnforced(t *testing.T) {
	router := newTestApp(t)
	owner := registerUser(t, router, "owner@example.com")
	stranger := registerUser(t, router, "stranger@example.com")

	pet := createPet(t, router, owner, "Rex", 3, "Labrador")

	get := doJSON(t, router, http.MethodGet, "/api/pets/"+pet.ID, stranger, "")
	if get.Code != http.StatusForbidden {
		t.Fatalf("foreign get expected 403, got %d", get.Code)
	}
	upd := doJSON(t, router, http.MethodPut, "/api/pets/"+pet.ID, stranger, `{"name":"Stolen"}`)
	if upd.Code != http.StatusForbidden {
		t.Fatalf("foreign update expected 403, got %d", upd.Code)
	}
	del := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID, stranger, "")
	if del.Code != http.StatusForbidden {
		t.Fatalf("foreign delete expected 403, got %d", del.Code)
	}

	// The stranger's listing stays empty.
	list := doJSON(t, router, http.MethodGet, "/api/pets/user", stranger, "")
	var pets []petResponse
	if err := json.NewDecoder(list.Body).Decode(&pets); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(pets) != 0 {
		t.Fatalf("expected empty list for stranger, got %+v", pets)
	}
}

func TestPetMedicalRecords(t *testing.T) {
	router := newTestApp(t)
	token := registerUser(t, router, "owner@example.com")
	pet := createPet(t, router, token, "Rex", 3, "Labrador")

	// Weight records.
	add := doJSON(t, router, http.MethodPost, "/api/pets/"+pet.ID+"/weight", token, `{"weight":12.5}`)
	if add.Code != http.StatusOK {
		t.Fatalf("add weight expected 200, got %d: %s", add.Code, add.Body.String())
	}
	var withWeight petResponse
	if err := json.NewDecoder(add.Body).Decode(&withWeight); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	if len(withWeight.WeightTrend) != 1 || withWeight.WeightTrend[0].Weight != 12.5 {
		t.Fatalf("expected one weight record, got %+v", withWeight.WeightTrend)
	}

	zero := doJSON(t, router, http.MethodPost, "/api/pets/"+pet.ID+"/weight", token, `{"weight":0}`)
	if zero.Code != http.StatusBadRequest {
		t.Fatalf("zero weight expected 400, got %d", zero.Code)
	}

	delW := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID+"/weight/"+withWeight.WeightTrend[0].ID, token, "")
	if delW.Code != http.StatusOK {
		t.Fatalf("delete weight expected 200, got %d", delW.Code)
	}
	var afterW petResponse
	if err := json.NewDecoder(delW.Body).Decode(&afterW); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	if len(afterW.WeightTrend) != 0 {
		t.Fatalf("expected empty weight trend, got %+v", afterW.WeightTrend)
	}

	delAgain := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID+"/weight/"+withWeight.WeightTrend[0].ID, token, "")
	if delAgain.Code != http.StatusNotFound {
		t.Fatalf("delete missing record expected 404, got %d", delAgain.Code)
	}

	// Vaccinations.
	vac := doJSON(t, router, http.MethodPost, "/api/pets/"+pet.ID+"/vaccination", token, `{"vaccine":"Rabies"}`)
	if vac.Code != http.StatusOK {
		t.Fatalf("add vaccination expected 200, got %d: %s", vac.Code, vac.Body.String())
	}
	var withVac petResponse
	if err := json.NewDecoder(vac.Body).Decode(&withVac); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	if len(withVac.VaccinationHistory) != 1 || withVac.VaccinationHistory[0].Vaccine != "Rabies" {
		t.Fatalf("expected one vaccination, got %+v", withVac.VaccinationHistory)
	}

	noName := doJSON(t, router, http.MethodPost, "/api/pets/"+pet.ID+"/vaccination", token, `{"vaccine":""}`)
	if noName.Code != http.StatusBadRequest {
		t.Fatalf("blank vaccine expected 400, got %d", noName.Code)
	}

	delV := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID+"/vaccination/"+withVac.VaccinationHistory[0].ID, token, "")
	if delV.Code != http.StatusOK {
		t.Fatalf("delete vaccination expected 200, got %d", delV.Code)
	}
}

func TestPetSearchScopedToOwner(t *testing.T) {
	router := newTestApp(t)
	owner := registerUser(t, router, "owner@example.com")
	other := registerUser(t, router, "other@example.com")

	createPet(t, router, owner, "Rex", 3, "Labrador")
	createPet(t, router, owner, "Momo", 2, "Persian Cat")
	createPet(t, router, other, "Rexona", 5, "Labrador")

	resp := doJSON(t, router, http.MethodGet, "/api/pets/search?name=rex", owner, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("search expected 200, got %d", resp.Code)
	}
	var found []petResponse
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Rex" {
		t.Fatalf("expected only the owner's Rex, got %+v", found)
	}

	byBreed := doJSON(t, router, http.MethodGet, "/api/pets/search?breed=labrador", owner, "")
	var breedMatches []petResponse
	if err := json.NewDecoder(byBreed.Body).Decode(&breedMatches); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(breedMatches) != 1 {
		t.Fatalf("expected one labrador for owner, got %+v", breedMatches)
	}

	all := doJSON(t, router, http.MethodGet, "/api/pets/search", owner, "")
	var everything []petResponse
	if err := json.NewDecoder(all.Body).Decode(&everything); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(everything) != 2 {
		t.Fatalf("expected both pets without filters, got %+v", everything)
	}
}

func TestPetProfileImageLifecycle(t *testing.T) {
	router := newTestApp(t)
	owner := registerUser(t, router, "owner@example.com")
	stranger := registerUser(t, router, "stranger@example.com")
	pet := createPet(t, router, owner, "Rex", 3, "Labrador")

	upload := func(token, fileName, contentType string, payload []byte) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profileImage"; filename=%q`, fileName))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(payload); err != nil {
			t.Fatalf("write part: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/pets/"+pet.ID+"/profile-image", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	// A stranger cannot attach an image.
	if resp := upload(stranger, "dog.png", "image/png", []byte("x")); resp.Code != http.StatusForbidden {
		t.Fatalf("foreign upload expected 403, got %d", resp.Code)
	}

	resp := upload(owner, "dog.png", "image/png", []byte("png-bytes"))
	if resp.Code != http.StatusOK {
		t.Fatalf("upload expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var uploaded struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload: %v", err)
	}

	// The pet record references the image.
	get := doJSON(t, router, http.MethodGet, "/api/pets/"+pet.ID, owner, "")
	var withImage petResponse
	if err := json.NewDecoder(get.Body).Decode(&withImage); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	if withImage.ProfileImage.Filename == nil || *withImage.ProfileImage.Filename != uploaded.Filename {
		t.Fatalf("expected image reference on pet, got %+v", withImage.ProfileImage)
	}

	// Serve the payload.
	img := doJSON(t, router, http.MethodGet, "/api/pets/image/"+uploaded.Filename, owner, "")
	if img.Code != http.StatusOK || img.Body.String() != "png-bytes" {
		t.Fatalf("image fetch expected 200 with payload, got %d %q", img.Code, img.Body.String())
	}

	// Deleting the pet releases its image.
	del := doJSON(t, router, http.MethodDelete, "/api/pets/"+pet.ID, owner, "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete pet expected 200, got %d", del.Code)
	}
	goneImg := doJSON(t, router, http.MethodGet, "/api/pets/image/"+uploaded.Filename, owner, "")
	if goneImg.Code != http.StatusNotFound {
		t.Fatalf("image of deleted pet expected 404, got %d", goneImg.Code)
	}
}
