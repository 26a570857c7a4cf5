package match

import (
	"testing"

	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/storage"
)

func fptr(v float64) *float64 { return &v }

// centerAt builds a center offset north of the donor by roughly km kilometers.
// One degree of latitude is close to 111 km.
func centerAt(id int64, km float64) storage.NeedWithCenter {
	return storage.NeedWithCenter{
		Center: domain.MedicalCenter{
			ID:        id,
			Latitude:  fptr(50.0 + km/111.0),
			Longitude: fptr(30.0),
		},
		Status: domain.NeedNeed,
	}
}

func centerNoCoords(id int64) storage.NeedWithCenter {
	return storage.NeedWithCenter{
		Center: domain.MedicalCenter{ID: id},
		Status: domain.NeedUrgent,
	}
}

func TestFindFiltersAndSorts(t *testing.T) {
	donor := &domain.User{Latitude: fptr(50.0), Longitude: fptr(30.0)}
	needs := []storage.NeedWithCenter{
		centerAt(1, 10),
		centerAt(2, 60),
		centerNoCoords(3),
		centerAt(4, 5),
	}

	got := Find(donor, needs, Options{RadiusKM: 50, Limit: 10})

	ids := make([]int64, len(got))
	for i, m := range got {
		ids[i] = m.Center.ID
	}
	want := []int64{4, 1, 3}
	if len(ids) != len(want) {
		t.Fatalf("got ids %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got ids %v, want %v", ids, want)
		}
	}

	if got[0].DistanceKM == nil || got[1].DistanceKM == nil {
		t.Fatal("located centers must have a computed distance")
	}
	if got[2].DistanceKM != nil {
		t.Fatal("center without coordinates must have nil distance")
	}
}

func TestFindDonorWithoutCoordinates(t *testing.T) {
	donor := &domain.User{}
	needs := []storage.NeedWithCenter{centerAt(1, 500), centerNoCoords(2)}

	got := Find(donor, needs, Options{RadiusKM: 50, Limit: 10})
	if len(got) != 2 {
		t.Fatalf("without donor coordinates no center may be filtered, got %d", len(got))
	}
	for _, m := range got {
		if m.DistanceKM != nil {
			t.Fatal("distances must be unknown without donor coordinates")
		}
	}
}

func TestFindLimit(t *testing.T) {
	donor := &domain.User{Latitude: fptr(50.0), Longitude: fptr(30.0)}
	var needs []storage.NeedWithCenter
	for i := int64(1); i <= 15; i++ {
		needs = append(needs, centerAt(i, float64(i)))
	}

	got := Find(donor, needs, Options{RadiusKM: 50, Limit: 10})
	if len(got) != 10 {
		t.Fatalf("limit not applied: got %d", len(got))
	}
	if got[0].Center.ID != 1 {
		t.Fatalf("nearest center must come first, got id %d", got[0].Center.ID)
	}
}
