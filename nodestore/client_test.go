// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"testing"
)

func newClient(t *testing.T) (*Client, *Store) {
	t.Helper()

	s := NewAWG(core)
	srv := httptest.NewServer(Handler(s))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", srv.Client()), s
}

func TestClient_Scalars(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newClient(t)

	if err := c.Set(ctx, core+"/enable", "on"); err != nil {
		t.Fatalf("Set(enable) error = %v", err)
	}
	if got, err := c.GetInt(ctx, core+"/enable"); err != nil || got != 1 {
		t.Errorf("GetInt(enable) = %d, %v; want 1", got, err)
	}

	if err := c.Set(ctx, core+"/outputs/0/gains/1", 0.25); err != nil {
		t.Fatal(err)
	}
	if got, err := c.GetDouble(ctx, core+"/outputs/0/gains/1"); err != nil || got != 0.25 {
		t.Errorf("GetDouble = %v, %v; want 0.25", got, err)
	}

	if err := c.Set(ctx, core+"/sequencer/program", "playZero(32);"); err != nil {
		t.Fatal(err)
	}
	if got, err := c.GetString(ctx, core+"/sequencer/program"); err != nil || got != "playZero(32);" {
		t.Errorf("GetString = %q, %v", got, err)
	}
}

func TestClient_Vectors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, s := newClient(t)

	data := []byte{0x01, 0x80, 0xff, 0x7f}
	if err := c.SetVector(ctx, core+"/waveform/waves/3", data); err != nil {
		t.Fatalf("SetVector error = %v", err)
	}
	if got, err := s.GetVector(ctx, core+"/waveform/waves/3"); err != nil || !slices.Equal(got, data) {
		t.Fatalf("store holds %x, %v", got, err)
	}
	if got, err := c.GetVector(ctx, core+"/waveform/waves/3"); err != nil || !slices.Equal(got, data) {
		t.Errorf("GetVector = %x, %v", got, err)
	}

	if err := c.Set(ctx, core+"/commandtable/data", []byte(`{"header":{}}`)); err != nil {
		t.Fatal(err)
	}
	if got, err := c.GetInt(ctx, core+"/commandtable/status"); err != nil || got != StatusUploaded {
		t.Errorf("status = %d, %v; want %d", got, err, StatusUploaded)
	}
	if got, err := c.GetString(ctx, core+"/commandtable/data"); err != nil || got != `{"header":{}}` {
		t.Errorf("GetString(data) = %q, %v", got, err)
	}
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newClient(t)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing", func() error { _, err := c.GetInt(ctx, core+"/nope"); return err }(), ErrNotFound},
		{"read only", c.Set(ctx, core+"/ready", 1), ErrReadOnly},
		{"unknown enum", c.Set(ctx, core+"/enable", "sideways"), ErrUnknownEnum},
		{"wildcard", c.Set(ctx, core+"/outputs/*/gains/0", 1), ErrWildcard},
		{"bad value", c.Set(ctx, core+"/enable", []int{1}), ErrType},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, tt.err, tt.want)
		}
	}
}
