package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-assistant/internal/ml"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func linearArtifact(t *testing.T, intercept float64) []byte {
	t.Helper()
	data, err := ml.EncodeArtifact(ml.KindLinear, ml.LinearModel{Intercept: intercept, Coefficients: []float64{1, 1, 1, 1}})
	require.NoError(t, err)
	return data
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "models.db")
	store, err := New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store.db)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "models.db"))
	assert.Error(t, err)
}

func TestStore_Close(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close(), "closing twice")
}

func TestStore_CloseNilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestPutAndGetArtifact(t *testing.T) {
	store := newTestStore(t)
	data := linearArtifact(t, 10)

	info, err := store.PutArtifact("regression", data)
	require.NoError(t, err)
	assert.Equal(t, "regression", info.Name)
	assert.Equal(t, ml.KindLinear, info.Kind)
	assert.Equal(t, len(data), info.Size)
	assert.False(t, info.ImportedAt.IsZero())

	got, err := store.GetArtifact("regression")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(got))

	p, _, err := ml.DecodeArtifact(got)
	require.NoError(t, err)
	y, err := p.Predict([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 20.0, y)
}

func TestPutArtifactRejectsInvalid(t *testing.T) {
	store := newTestStore(t)

	_, err := store.PutArtifact("SVM", []byte(`{"kind":"svm","model":{"classes":[0]}}`))
	assert.Error(t, err)
	_, err = store.PutArtifact("", linearArtifact(t, 0))
	assert.Error(t, err)

	list, err := store.ListArtifacts()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetArtifactNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetArtifact("KNN")
	var nf *ml.ArtifactNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "KNN", nf.Name)
}

func TestPutArtifactReplacesCurrent(t *testing.T) {
	store := newTestStore(t)
	_, err := store.PutArtifact("regression", linearArtifact(t, 1))
	require.NoError(t, err)
	_, err = store.PutArtifact("regression", linearArtifact(t, 2))
	require.NoError(t, err)

	data, err := store.GetArtifact("regression")
	require.NoError(t, err)
	p, _, err := ml.DecodeArtifact(data)
	require.NoError(t, err)
	y, err := p.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, y)

	history, err := store.History("regression", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestListArtifacts(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"SVM", "KNN", "regression"} {
		_, err := store.PutArtifact(name, linearArtifact(t, 0))
		require.NoError(t, err)
	}

	list, err := store.ListArtifacts()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "KNN", list[0].Name)
	assert.Equal(t, "SVM", list[1].Name)
	assert.Equal(t, "regression", list[2].Name)
}

func TestDeleteArtifact(t *testing.T) {
	store := newTestStore(t)
	_, err := store.PutArtifact("SVM", linearArtifact(t, 0))
	require.NoError(t, err)

	require.NoError(t, store.DeleteArtifact("SVM"))
	_, err = store.GetArtifact("SVM")
	assert.Error(t, err)
	assert.Error(t, store.DeleteArtifact("SVM"))

	history, err := store.History("SVM", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, history, 1, "history survives deletion")
}

func TestHistoryRange(t *testing.T) {
	store := newTestStore(t)
	before := time.Now()
	_, err := store.PutArtifact("KNN", linearArtifact(t, 0))
	require.NoError(t, err)
	_, err = store.PutArtifact("KNN_shadow", linearArtifact(t, 0))
	require.NoError(t, err)

	history, err := store.History("KNN", before.Add(-time.Second), time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Len(t, history, 1, "prefix must not match other names")
	assert.Equal(t, "KNN", history[0].Name)

	history, err = store.History("KNN", time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStoreAsRegistrySource(t *testing.T) {
	store := newTestStore(t)
	_, err := store.PutArtifact("regression", linearArtifact(t, 5))
	require.NoError(t, err)

	reg := ml.Load(t.Context(), []ml.ModelSource{
		{Name: "regression", Kind: ml.SourceStore},
		{Name: "SVM", Kind: ml.SourceStore},
	}, ml.WithStore(store))

	_, ok := reg.Get("regression")
	assert.True(t, ok)
	assert.Contains(t, reg.Unavailable(), "SVM")
}

func TestConcurrentAccess(t *testing.T) {
	store := newTestStore(t)
	data := linearArtifact(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("model-%d", i)
			for j := 0; j < 5; j++ {
				_, err := store.PutArtifact(name, data)
				assert.NoError(t, err)
				_, err = store.GetArtifact(name)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	list, err := store.ListArtifacts()
	require.NoError(t, err)
	assert.Len(t, list, 10)
}

func BenchmarkGetArtifact(b *testing.B) {
	store, err := New(filepath.Join(b.TempDir(), "models.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	data, _ := ml.EncodeArtifact(ml.KindLinear, ml.LinearModel{Coefficients: []float64{1}})
	if _, err := store.PutArtifact("regression", data); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.GetArtifact("regression"); err != nil {
			b.Fatal(err)
		}
	}
}
