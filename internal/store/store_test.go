package store

import (
	"testing"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/dermascan/dermascan-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestUserStoreEmailUniqueness(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserStore(db)

	first := &models.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: models.RolePatient, ApprovalStatus: models.ApprovalNone}
	if err := users.Create(first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	dup := &models.User{Name: "Ada 2", Email: "ada@example.com", Password: "y", Role: models.RolePatient, ApprovalStatus: models.ApprovalNone}
	err := users.Create(dup)
	if !apperr.Is(err, apperr.Storage) {
		t.Fatalf("expected storage error on duplicate email, got %v", err)
	}

	// The first account must be unaffected.
	got, err := users.FindByEmail("ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got == nil || got.ID != first.ID || got.Name != "Ada" {
		t.Errorf("first account changed: %+v", got)
	}
}

func TestUserStoreFindByEmailAbsent(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserStore(db)

	got, err := users.FindByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent email, got %+v", got)
	}
}

func TestUserStoreUpdateApprovalStatusNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserStore(db)

	err := users.UpdateApprovalStatus(uuid.New(), models.ApprovalApproved)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserStorePendingDoctors(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserStore(db)

	testutil.SeedUser(t, db, "Pat", "pat@example.com", models.RolePatient)
	doc := testutil.SeedUser(t, db, "Doc", "doc@example.com", models.RoleDoctor)
	approved := testutil.SeedUser(t, db, "Doc2", "doc2@example.com", models.RoleDoctor)
	if err := users.UpdateApprovalStatus(approved.ID, models.ApprovalApproved); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	pending, err := users.FindPendingDoctors()
	if err != nil {
		t.Fatalf("FindPendingDoctors failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != doc.ID {
		t.Errorf("unexpected pending doctors: %+v", pending)
	}
}

func TestFeatureStoreDefaulting(t *testing.T) {
	db := testutil.OpenDB(t)
	features := NewFeatureStore(db)

	imageID := uuid.New()
	row := &models.ImageFeatures{
		ImageID:        imageID,
		Asymmetry:      1,
		PigmentNetwork: "T",
		// DotsGlobules, Streaks, RegressionAreas, BlueWhitishVeil absent
		ColorRed: true,
	}
	if err := features.Create(row); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := features.FindByImage(imageID)
	if err != nil {
		t.Fatalf("FindByImage failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected features row")
	}
	if got.PigmentNetwork != "T" {
		t.Errorf("PigmentNetwork = %q, want T", got.PigmentNetwork)
	}
	for name, val := range map[string]string{
		"DotsGlobules":    got.DotsGlobules,
		"Streaks":         got.Streaks,
		"RegressionAreas": got.RegressionAreas,
		"BlueWhitishVeil": got.BlueWhitishVeil,
	} {
		if val != models.FeatureUnknown {
			t.Errorf("%s = %q, want %q", name, val, models.FeatureUnknown)
		}
	}
	if !got.ColorRed || got.ColorBlack {
		t.Errorf("unexpected color flags: %+v", got)
	}
}

func TestFeatureStoreUpdate(t *testing.T) {
	db := testutil.OpenDB(t)
	features := NewFeatureStore(db)

	imageID := uuid.New()
	row := &models.ImageFeatures{ImageID: imageID, Asymmetry: 1, PigmentNetwork: "T", ColorRed: true}
	if err := features.Create(row); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	row.Asymmetry = 2
	row.PigmentNetwork = "AT"
	row.Streaks = "" // defaulting applies on update too
	row.ColorRed = false
	if err := features.Update(row); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := features.FindByImage(imageID)
	if err != nil {
		t.Fatalf("FindByImage failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected features row")
	}
	if got.ID != row.ID || got.ImageID != imageID {
		t.Errorf("identity changed on update: %+v", got)
	}
	if got.Asymmetry != 2 || got.PigmentNetwork != "AT" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Streaks != models.FeatureUnknown {
		t.Errorf("Streaks = %q, want %q", got.Streaks, models.FeatureUnknown)
	}
	if got.ColorRed {
		t.Errorf("ColorRed not cleared: %+v", got)
	}
}

func TestFeatureStoreUpdateNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	features := NewFeatureStore(db)

	row := &models.ImageFeatures{ID: uuid.New(), ImageID: uuid.New(), PigmentNetwork: "T"}
	err := features.Update(row)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeatureStoreFindByImageAbsent(t *testing.T) {
	db := testutil.OpenDB(t)
	features := NewFeatureStore(db)

	got, err := features.FindByImage(uuid.New())
	if err != nil {
		t.Fatalf("FindByImage failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent row, got %+v", got)
	}
}

func TestClassificationStoreRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	classifications := NewClassificationStore(db)

	imageID := uuid.New()
	row := &models.Classification{
		ImageID:    imageID,
		Result:     models.ResultMelanoma,
		Confidence: 60,
		Predictions: []models.Prediction{
			{ClassName: "Melanoma", ClassCode: "mel", ConfidencePercent: 60},
			{ClassName: "Melanocytic nevi", ClassCode: "nv", ConfidencePercent: 30},
		},
	}
	if err := classifications.Create(row); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := classifications.FindByImage(imageID)
	if err != nil {
		t.Fatalf("FindByImage failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected classification row")
	}
	if got.Result != models.ResultMelanoma || got.Confidence != 60 {
		t.Errorf("unexpected row: %+v", got)
	}
	if len(got.Predictions) != 2 || got.Predictions[0].ClassCode != "mel" {
		t.Errorf("prediction order lost: %+v", got.Predictions)
	}
}

func TestImageStoreFindByUsers(t *testing.T) {
	db := testutil.OpenDB(t)
	images := NewImageStore(db)

	owner := testutil.SeedUser(t, db, "Pat", "pat@example.com", models.RolePatient)
	other := testutil.SeedUser(t, db, "Eve", "eve@example.com", models.RolePatient)

	for i := 0; i < 3; i++ {
		if err := images.Create(&models.Image{UserID: owner.ID, Path: "uploads/a.jpg"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	byUser, err := images.FindByUsers([]uuid.UUID{owner.ID, other.ID})
	if err != nil {
		t.Fatalf("FindByUsers failed: %v", err)
	}
	if len(byUser[owner.ID]) != 3 {
		t.Errorf("owner images = %d, want 3", len(byUser[owner.ID]))
	}
	if _, ok := byUser[other.ID]; ok {
		t.Errorf("expected no entry for user without images")
	}
}
