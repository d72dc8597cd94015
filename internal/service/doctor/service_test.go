package doctor

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/cache"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/memory"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/metrics"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

var editor = &model.Account{Permissions: []string{model.PermEditDoctor}}

func newService(t *testing.T, enabled bool) (*Service, *memory.Store, *metrics.Metrics) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Doctors().Create(context.Background(), &model.Doctor{Name: "Dr. Lee", Specialization: "Neurology"}))
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	svc := NewService(store, cache.NewMemoryCache(0), Config{CacheEnabled: enabled}, validator.New(), m, zerolog.Nop())
	return svc, store, m
}

func TestService_ListDoctorsCachedSnapshotIsIdentical(t *testing.T) {
	ctx := context.Background()
	svc, store, m := newService(t, true)

	first, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	second, err := svc.ListDoctors(ctx)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first, second)
	assert.Same(t, first[0], second[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(CacheKey, "hit")))

	// A write that bypasses the service is not seen until invalidation.
	require.NoError(t, store.Doctors().Create(ctx, &model.Doctor{Name: "Dr. Kim", Specialization: "ENT"}))
	third, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 1)
}

func TestService_WritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	svc, _, m := newService(t, true)

	before, err := svc.ListDoctors(ctx)
	require.NoError(t, err)

	created, err := svc.CreateDoctor(ctx, editor, &model.CreateDoctorRequest{Name: "Dr. Kim", Specialization: "ENT"})
	require.NoError(t, err)

	after, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 2)
	assert.NotSame(t, before[0], after[0])

	name := "Dr. Kim-Park"
	_, err = svc.UpdateDoctor(ctx, editor, created.ID, &model.UpdateDoctorRequest{Name: &name})
	require.NoError(t, err)
	after, err = svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Kim-Park", after[0].Name)

	require.NoError(t, svc.DeleteDoctor(ctx, editor, created.ID))
	after, err = svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheInvalidations.WithLabelValues(CacheKey)))
}

func TestService_ListDoctorsCacheDisabled(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t, false)

	first, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Doctors().Create(ctx, &model.Doctor{Name: "Dr. Kim", Specialization: "ENT"}))
	second, err := svc.ListDoctors(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
	assert.NotSame(t, first[0], second[0])
}

func TestService_DoctorWritesRequireCapability(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, true)

	_, err := svc.CreateDoctor(ctx, &model.Account{}, &model.CreateDoctorRequest{Name: "X", Specialization: "Y"})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.CreateDoctor(ctx, &model.Account{IsSuperuser: true}, &model.CreateDoctorRequest{Name: "X", Specialization: "Y"})
	assert.NoError(t, err)
}

func TestService_CreateDoctorValidation(t *testing.T) {
	svc, _, _ := newService(t, true)
	negative := -1

	_, err := svc.CreateDoctor(context.Background(), editor, &model.CreateDoctorRequest{Name: "X", Experience: &negative})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "specialization")
	assert.Contains(t, appErr.Fields, "experience")
}

// pausingStore holds the first doctor list read open until release is closed.
type pausingStore struct {
	*memory.Store
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingStore) Doctors() repository.DoctorRepository {
	return &pausingDoctors{DoctorRepository: p.Store.Doctors(), p: p}
}

type pausingDoctors struct {
	repository.DoctorRepository
	p *pausingStore
}

func (d *pausingDoctors) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := d.DoctorRepository.List(ctx)
	d.p.once.Do(func() {
		close(d.p.read)
		<-d.p.release
	})
	return doctors, err
}

func TestService_WriteDuringCacheFillIsNotLost(t *testing.T) {
	ctx := context.Background()
	store := &pausingStore{Store: memory.NewStore(), read: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, store.Store.Doctors().Create(ctx, &model.Doctor{Name: "Dr. Lee", Specialization: "Neurology"}))
	svc := NewService(store, cache.NewMemoryCache(0), Config{CacheEnabled: true}, validator.New(), nil, zerolog.Nop())

	stale := make(chan []*model.Doctor, 1)
	go func() {
		doctors, err := svc.ListDoctors(ctx)
		assert.NoError(t, err)
		stale <- doctors
	}()

	<-store.read
	_, err := svc.CreateDoctor(ctx, editor, &model.CreateDoctorRequest{Name: "Dr. Kim", Specialization: "ENT"})
	require.NoError(t, err)
	close(store.release)
	assert.Len(t, <-stale, 1)

	fresh, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	cached, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Same(t, fresh[0], cached[0])
}
