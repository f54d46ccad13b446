package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/you/meddirsvc/domain"
)

func seedFacility(t *testing.T, repo domain.FacilityRepository, category domain.ManageCategory, title, county string, partner bool) *domain.Facility {
	t.Helper()

	f := &domain.Facility{
		Category: category,
		Title:    title,
		County:   county,
		District: "Lisboa",
		Partner:  partner,
	}
	if err := repo.Create(context.Background(), f); err != nil {
		t.Fatalf("failed to seed facility: %v", err)
	}
	return f
}

func TestFacilityRepository_FindByID_CategoryScoped(t *testing.T) {
	repo := NewFacilityRepository(newTestDB(t))
	ctx := context.Background()

	hospital := seedFacility(t, repo, domain.CategoryHospital, "Hospital de Santa Maria", "Lisboa", true)

	got, err := repo.FindByID(ctx, domain.CategoryHospital, hospital.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != hospital.Title {
		t.Errorf("Title = %q, want %q", got.Title, hospital.Title)
	}

	// The same numeric ID under a different category is a different namespace.
	_, err = repo.FindByID(ctx, domain.CategoryPharmacy, hospital.ID)
	if !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound for a category mismatch", err)
	}
}

func TestFacilityRepository_List(t *testing.T) {
	repo := NewFacilityRepository(newTestDB(t))
	ctx := context.Background()

	seedFacility(t, repo, domain.CategoryClinic, "Clínica Lusíadas", "Lisboa", false)
	seedFacility(t, repo, domain.CategoryClinic, "Clínica CUF Porto", "Porto", true)
	seedFacility(t, repo, domain.CategoryPharmacy, "Farmácia Central", "Lisboa", false)

	t.Run("filters by category", func(t *testing.T) {
		got, total, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryClinic})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 2 || len(got) != 2 {
			t.Fatalf("total = %d, rows = %d, want 2 clinics", total, len(got))
		}
	})

	t.Run("partners first", func(t *testing.T) {
		got, _, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryClinic})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got[0].Partner {
			t.Error("partner entries must sort ahead of the rest")
		}
	})

	t.Run("filters by county", func(t *testing.T) {
		got, total, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryClinic, County: "Porto"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || got[0].County != "Porto" {
			t.Errorf("got %d rows, want the single Porto clinic", total)
		}
	})

	t.Run("keyword matches title", func(t *testing.T) {
		_, total, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryClinic, Keyword: "CUF"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		got, total, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryClinic, Limit: 1, Page: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 2 {
			t.Errorf("total = %d, want the full count regardless of page", total)
		}
		if len(got) != 1 {
			t.Errorf("rows = %d, want 1", len(got))
		}
	})
}

func TestFacilityRepository_Update(t *testing.T) {
	repo := NewFacilityRepository(newTestDB(t))
	ctx := context.Background()

	f := seedFacility(t, repo, domain.CategoryHospital, "Hospital Velho", "Braga", false)
	f.Title = "Hospital Novo"
	f.Partner = true

	if err := repo.Update(ctx, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.FindByID(ctx, domain.CategoryHospital, f.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Hospital Novo" || !got.Partner {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestFacilityRepository_Update_NotFound(t *testing.T) {
	repo := NewFacilityRepository(newTestDB(t))

	err := repo.Update(context.Background(), &domain.Facility{ID: 999, Category: domain.CategoryHospital, Title: "x"})
	if !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound", err)
	}
}

func TestFacilityRepository_SoftDelete(t *testing.T) {
	repo := NewFacilityRepository(newTestDB(t))
	ctx := context.Background()

	f := seedFacility(t, repo, domain.CategoryPharmacy, "Farmácia Moderna", "Faro", false)

	if err := repo.SoftDelete(ctx, domain.CategoryPharmacy, f.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.FindByID(ctx, domain.CategoryPharmacy, f.ID); !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound after delete", err)
	}

	_, total, err := repo.List(ctx, domain.FacilityFilter{Category: domain.CategoryPharmacy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("deleted entries must not be listed, total = %d", total)
	}

	// Deleting twice reports not-found, not success.
	if err := repo.SoftDelete(ctx, domain.CategoryPharmacy, f.ID); !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound on repeat delete", err)
	}
}
