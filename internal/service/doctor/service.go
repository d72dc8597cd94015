package doctor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bondaralexcy/medical-diagnostic/internal/cache"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/metrics"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

// CacheKey holds the snapshot of the doctor directory.
const CacheKey = "doctors"

type Config struct {
	CacheEnabled bool
}

type Service struct {
	store     repository.Store
	cache     cache.Cache
	cfg       Config
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	// fillMu guards gen. invalidate bumps gen, and a list read started
	// under an older gen must not fill the cache.
	fillMu sync.Mutex
	gen    uint64
}

func NewService(store repository.Store, c cache.Cache, cfg Config, v validator.Validator, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if c == nil {
		cfg.CacheEnabled = false
	}
	return &Service{
		store:     store,
		cache:     c,
		cfg:       cfg,
		validator: v,
		metrics:   m,
		logger:    logger.With().Str("service", "doctor").Logger(),
	}
}

// ListDoctors returns the doctor directory. With caching enabled the first
// read is stored without expiry and served until a doctor is written.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	if !s.cfg.CacheEnabled {
		return s.store.Doctors().List(ctx)
	}

	var doctors []*model.Doctor
	found, err := s.cache.Get(ctx, CacheKey, &doctors)
	if err != nil {
		s.logger.Warn().Err(err).Msg("doctor cache read failed")
	}
	if found {
		s.metrics.CacheHit(CacheKey)
		return doctors, nil
	}
	s.metrics.CacheMiss(CacheKey)

	s.fillMu.Lock()
	gen := s.gen
	s.fillMu.Unlock()

	doctors, err = s.store.Doctors().List(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, gen, doctors)
	return doctors, nil
}

// fill stores doctors unless a write invalidated the key after the read
// that produced them began.
func (s *Service) fill(ctx context.Context, gen uint64, doctors []*model.Doctor) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if gen != s.gen {
		s.logger.Debug().Msg("doctor list changed during read; cache fill skipped")
		return
	}
	if err := s.cache.Set(ctx, CacheKey, doctors, cache.NoExpiration); err != nil {
		s.logger.Warn().Err(err).Msg("doctor cache write failed")
	}
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.store.Doctors().Get(ctx, id)
}

func (s *Service) CreateDoctor(ctx context.Context, acc *model.Account, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if !acc.HasPermission(model.PermEditDoctor) {
		return nil, errors.Forbidden("create doctor")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		Experience:     req.Experience,
		Education:      req.Education,
		Avatar:         req.Avatar,
		Comment:        req.Comment,
	}
	if err := s.store.Doctors().Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	s.invalidate(ctx)
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	if !acc.HasPermission(model.PermEditDoctor) {
		return nil, errors.Forbidden("update doctor")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doctor, err := s.store.Doctors().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Qualification != nil {
		doctor.Qualification = *req.Qualification
	}
	if req.Experience != nil {
		doctor.Experience = req.Experience
	}
	if req.Education != nil {
		doctor.Education = *req.Education
	}
	if req.Avatar != nil {
		doctor.Avatar = *req.Avatar
	}
	if req.Comment != nil {
		doctor.Comment = *req.Comment
	}

	fields := map[string]string{}
	if doctor.Name == "" {
		fields["name"] = "this field is required"
	}
	if doctor.Specialization == "" {
		fields["specialization"] = "this field is required"
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	if err := s.store.Doctors().Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	s.invalidate(ctx)
	return doctor, nil
}

// DeleteDoctor removes the doctor and, by cascade, its appointments.
func (s *Service) DeleteDoctor(ctx context.Context, acc *model.Account, id uuid.UUID) error {
	if !acc.HasPermission(model.PermEditDoctor) {
		return errors.Forbidden("delete doctor")
	}
	if err := s.store.Doctors().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if !s.cfg.CacheEnabled {
		return
	}
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.gen++
	if err := s.cache.Delete(ctx, CacheKey); err != nil {
		s.logger.Error().Err(err).Msg("doctor cache invalidation failed")
		return
	}
	s.metrics.CacheInvalidated(CacheKey)
}
