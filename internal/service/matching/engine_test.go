package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
)

type mockTechnicianRepository struct {
	mock.Mock
}

func (m *mockTechnicianRepository) ListVerifiedTechniciansByService(ctx context.Context, serviceID string) ([]*domain.Technician, error) {
	args := m.Called(ctx, serviceID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Technician), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPick_HighestVerifiedRating(t *testing.T) {
	candidates := []*domain.Technician{
		{ID: "A", Rating: 4.5, Verified: true},
		{ID: "B", Rating: 4.8, Verified: true},
		{ID: "C", Rating: 4.9, Verified: false},
	}

	best := Pick(candidates)
	require.NotNil(t, best)
	assert.Equal(t, "B", best.ID)
}

func TestPick_TieBrokenByID(t *testing.T) {
	candidates := []*domain.Technician{
		{ID: "t-9", Rating: 4.7, Verified: true},
		{ID: "t-2", Rating: 4.7, Verified: true},
		{ID: "t-5", Rating: 4.7, Verified: true},
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, "t-2", Pick(candidates).ID)
		candidates = append(candidates[1:], candidates[0])
	}
}

func TestPick_NoCandidates(t *testing.T) {
	assert.Nil(t, Pick(nil))
	assert.Nil(t, Pick([]*domain.Technician{{ID: "x", Rating: 5}}))
}

func TestEngine_Match(t *testing.T) {
	repo := new(mockTechnicianRepository)
	repo.On("ListVerifiedTechniciansByService", mock.Anything, "s-1").Return([]*domain.Technician{
		{ID: "A", Rating: 4.5, Verified: true},
		{ID: "B", Rating: 4.8, Verified: true},
	}, nil)

	got, err := NewEngine(repo).Match(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.ID)
	repo.AssertExpectations(t)
}

func TestEngine_Match_RepositoryError(t *testing.T) {
	repo := new(mockTechnicianRepository)
	repo.On("ListVerifiedTechniciansByService", mock.Anything, "s-1").Return(nil, errors.New("db down"))

	_, err := NewEngine(repo).Match(context.Background(), "s-1")
	assert.ErrorIs(t, err, ErrLoadCandidates)
}
