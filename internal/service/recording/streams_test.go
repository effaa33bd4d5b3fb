package recording

import (
	"context"
	"testing"

	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/reconcile"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreamsAPI struct {
	streams []models.Stream
	err     error
}

func (f *fakeStreamsAPI) GetStreams(_ context.Context, _ int64) ([]models.Stream, error) {
	return append([]models.Stream(nil), f.streams...), nil
}

func (f *fakeStreamsAPI) DeleteStream(_ context.Context, _, _ int64) error {
	return f.err
}

func (f *fakeStreamsAPI) DeleteAllStreams(_ context.Context, _ int64) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.streams), nil
}

func libraryWith(t *testing.T, err error) (*StreamLibrary, *reconcile.StreamStore) {
	api := &fakeStreamsAPI{
		streams: []models.Stream{{ID: 1, StreamerID: 5}, {ID: 2, StreamerID: 5}, {ID: 3, StreamerID: 5}},
		err:     err,
	}
	store := reconcile.NewStreamStore(api, reconcile.Options{})
	_, loadErr := store.Load(context.Background(), 5)
	require.NoError(t, loadErr)

	return NewStreamLibrary(api, store), store
}

func ids(streams []models.Stream) []int64 {
	res := make([]int64, 0, len(streams))
	for _, st := range streams {
		res = append(res, st.ID)
	}
	return res
}

func TestDeleteStream(t *testing.T) {
	lib, store := libraryWith(t, nil)

	require.NoError(t, lib.DeleteStream(context.Background(), 5, 2))

	streams, _ := store.Streams(5)
	assert.Equal(t, []int64{1, 3}, ids(streams))
}

func TestDeleteStream_FailureRestoresPosition(t *testing.T) {
	lib, store := libraryWith(t, errors.New("network"))

	assert.Error(t, lib.DeleteStream(context.Background(), 5, 2))

	streams, _ := store.Streams(5)
	assert.Equal(t, []int64{1, 2, 3}, ids(streams))
}

func TestDeleteAllStreams(t *testing.T) {
	lib, store := libraryWith(t, nil)

	n, err := lib.DeleteAllStreams(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	streams, _ := store.Streams(5)
	assert.Empty(t, streams)
}

func TestDeleteAllStreams_FailureRestores(t *testing.T) {
	lib, store := libraryWith(t, &models.APIError{Status: 503})

	_, err := lib.DeleteAllStreams(context.Background(), 5)
	assert.Error(t, err)

	streams, _ := store.Streams(5)
	assert.Equal(t, []int64{1, 2, 3}, ids(streams))
}

func TestDeleteAllStreams_FailureLeavesUnloadedStreamerUntracked(t *testing.T) {
	api := &fakeStreamsAPI{err: errors.New("network")}
	store := reconcile.NewStreamStore(api, reconcile.Options{})
	lib := NewStreamLibrary(api, store)

	_, err := lib.DeleteAllStreams(context.Background(), 9)
	assert.Error(t, err)

	_, tracked := store.Streams(9)
	assert.False(t, tracked)
	assert.Empty(t, store.Tracked())
}
