package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/TodoKeeper/internal/client/kvstore"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	return New(kvstore.New(kvstore.NewFileBackend(filepath.Join(t.TempDir(), "storage.json")), nil))
}

func TestLoad_Default(t *testing.T) {
	r := newRepo(t)
	p, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p)
	assert.Nil(t, p.Avatar)
}

func TestSave_ReplacesWholesale(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	p := models.DefaultProfile()
	p.Name = "Jane Roe"
	p.Bio = ""
	errs, err := r.Save(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, errs)

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSave_Invalid(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	p := models.Profile{Name: " ", Email: "nope", Phone: ""}
	errs, err := r.Save(ctx, p)
	require.NoError(t, err)
	assert.True(t, errs.Has(validation.FieldName))
	assert.Equal(t, "Email is invalid", errs[validation.FieldEmail])
	assert.True(t, errs.Has(validation.FieldPhone))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), got)
}

func TestReset(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	p := models.DefaultProfile()
	p.Name = "Jane Roe"
	_, err := r.Save(ctx, p)
	require.NoError(t, err)

	require.NoError(t, r.Reset(ctx))
	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
}
