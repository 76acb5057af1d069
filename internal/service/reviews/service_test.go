package reviews_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/memory"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/reviews"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func TestLoad_ReviewsAndAverage(t *testing.T) {
	now := time.Now().UTC()
	gw := memory.NewGateway()
	gw.SeedReviews(
		domain.Review{ID: "r-1", VendorID: "vendor-1", CustomerID: "customer-1", Comment: "great", Rating: 5, CreatedAt: now},
		domain.Review{ID: "r-2", VendorID: "vendor-1", CustomerID: "customer-2", Comment: "ok", Rating: 4, CreatedAt: now},
		domain.Review{ID: "r-3", VendorID: "vendor-2", CustomerID: "customer-3", Comment: "bad", Rating: 1, CreatedAt: now},
	)

	svc := reviews.NewService(gw, loggerForTests())
	got, err := svc.Load(context.Background(), "vendor-1")

	require.NoError(t, err)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "r-1", got.Reviews[0].ID)
	assert.True(t, got.AverageRating.Equal(decimal.RequireFromString("4.5")),
		"average = %s", got.AverageRating)
}

func TestLoad_NoReviews(t *testing.T) {
	svc := reviews.NewService(memory.NewGateway(), loggerForTests())

	got, err := svc.Load(context.Background(), "vendor-1")

	require.NoError(t, err)
	assert.Empty(t, got.Reviews)
	assert.True(t, got.AverageRating.IsZero())
}

func TestLoad_EmptyVendorID(t *testing.T) {
	svc := reviews.NewService(memory.NewGateway(), loggerForTests())

	_, err := svc.Load(context.Background(), "")

	require.ErrorIs(t, err, domain.ErrVendorIDRequired)
}

// failingReviewGateway отдаёт ошибку на выборку отзывов.
type failingReviewGateway struct {
	*memory.Gateway
}

func (g *failingReviewGateway) ReviewsByVendor(context.Context, string) ([]domain.Review, error) {
	return nil, domain.NewRemoteError("reviews.fetch_by_vendor", errors.New("backend down"))
}

func TestLoad_RemoteFailure(t *testing.T) {
	gw := &failingReviewGateway{Gateway: memory.NewGateway()}
	svc := reviews.NewService(gw, loggerForTests())

	_, err := svc.Load(context.Background(), "vendor-1")

	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))
}
