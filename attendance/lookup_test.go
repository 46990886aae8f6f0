package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/Rafhael-Viana/attendees/models"
)

func lookupFixture() (*Engine, *memStore) {
	s := newMemStore()
	s.addMember(models.Member{ID: 1, FirstName: "Ana", LastName: "Silva", IDNumber: "12345", Email: "ana@example.com", Username: "ana"})
	s.addMember(models.Member{ID: 2, FirstName: "Bruno", LastName: "Costa", IDNumber: "12345", Email: "bruno@example.com", Username: "bruno"})
	s.addMember(models.Member{ID: 3, FirstName: "Carla", LastName: "Dias", IDNumber: "999", Phone1: "555-0100", Username: "carla"})
	s.groups[50] = []int64{1}
	return New(s, Config{}), s
}

func TestLookup(t *testing.T) {
	e, _ := lookupFixture()
	ctx := context.Background()
	activity := models.Activity{ID: 1, KioskMode: true}

	cases := []struct {
		name    string
		fields  []string
		group   int64
		code    string
		want    int64
		wantErr error
	}{
		{"unique idnumber", nil, 0, "999", 3, nil},
		{"email via default fields", nil, 0, "bruno@example.com", 2, nil},
		{"phone via default fields", nil, 0, "555-0100", 3, nil},
		{"surrounding spaces trimmed", nil, 0, "  carla ", 3, nil},
		{"shared idnumber is ambiguous", []string{"idnumber"}, 0, "12345", 0, ErrCodeNotFound},
		{"no match", nil, 0, "000", 0, ErrCodeNotFound},
		{"field not configured", []string{"idnumber"}, 0, "ana@example.com", 0, ErrCodeNotFound},
		{"group narrows candidates", []string{"idnumber"}, 50, "12345", 1, nil},
		{"empty code", nil, 0, "   ", 0, ErrEmptyInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := activity
			a.SearchFields = tc.fields
			m, err := e.Lookup(ctx, a, tc.group, tc.code)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if m.ID != tc.want {
				t.Fatalf("member = %d, want %d", m.ID, tc.want)
			}
		})
	}
}

func TestMatchCodeCountsMemberOnce(t *testing.T) {
	m := models.Member{ID: 9, Username: "x1", IDNumber: "x1"}
	got, ok := MatchCode([]models.Member{m}, []string{"idnumber", "username"}, "x1")
	if !ok || got.ID != 9 {
		t.Fatalf("MatchCode = %d, %v; want 9, true", got.ID, ok)
	}
}
