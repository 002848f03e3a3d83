package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

func TestMapErr(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"other", boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErr(tt.err, "thing"); !errors.Is(got, tt.want) {
				t.Errorf("mapErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	if mapErr(nil, "thing") != nil {
		t.Error("nil should stay nil")
	}
}

func TestAffected(t *testing.T) {
	if err := affected(pgconn.NewCommandTag("UPDATE 0"), "plan"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := affected(pgconn.NewCommandTag("UPDATE 1"), "plan"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuilderOptionsRoundTrip(t *testing.T) {
	if data, err := encodeOptions(nil); err != nil || data != nil {
		t.Fatalf("nil options should encode to NULL, got %q, %v", data, err)
	}
	if opts, err := decodeOptions(nil); err != nil || opts != nil {
		t.Fatalf("NULL should decode to nil options, got %+v, %v", opts, err)
	}

	in := &domain.BuilderOptions{AltStart: 5, AltEnd: 50, HIncrement: 2, VIncrement: 3, DRotation: 90}
	data, err := encodeOptions(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decodeOptions(data)
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}
