package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
	"github.com/notifyhq/notify-api/pkg/apierror"
	"github.com/notifyhq/notify-api/pkg/validator"
)

const ErrorNotFound = "Client not found"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service interface {
	List(ctx context.Context, page, limit int) ([]*model.Client, error)
	Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     repository.ClientRepository
	validate *validator.Validator
}

func NewService(repo repository.ClientRepository, validate *validator.Validator) Service {
	return &service{
		repo:     repo,
		validate: validate,
	}
}

// PageToOffset normalizes pagination input. Page numbering starts at 1.
func PageToOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, (page - 1) * limit
}

func (s *service) List(ctx context.Context, page, limit int) ([]*model.Client, error) {
	limit, offset := PageToOffset(page, limit)

	clients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *service) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	if ferr := s.validate.Struct(req); ferr != nil {
		return nil, apierror.Validation(fieldMessage(ferr.Field, ferr.Tag), ferr.Field)
	}

	if aerr := s.checkEmailUnique(ctx, req.Email); aerr != nil {
		return nil, aerr
	}
	if aerr := s.checkPhoneUnique(ctx, req.PhoneNumber); aerr != nil {
		return nil, aerr
	}

	client := &model.Client{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound(ErrorNotFound)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// Update applies a partial update. Names overwrite when non-empty.
// Email and phone overwrite only when non-empty and different from the
// stored value; uniqueness is re-checked only for changed values, so
// resubmitting a client's own email or phone never conflicts.
func (s *service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current

	if req.FirstName != "" {
		if aerr := s.validateName(req.FirstName, "firstName"); aerr != nil {
			return nil, aerr
		}
		updated.FirstName = req.FirstName
	}
	if req.LastName != "" {
		if aerr := s.validateName(req.LastName, "lastName"); aerr != nil {
			return nil, aerr
		}
		updated.LastName = req.LastName
	}

	if req.Email != "" && req.Email != current.Email {
		if aerr := s.validateEmail(req.Email); aerr != nil {
			return nil, aerr
		}
		if aerr := s.checkEmailUnique(ctx, req.Email); aerr != nil {
			return nil, aerr
		}
		updated.Email = req.Email
	}
	if req.PhoneNumber != "" && req.PhoneNumber != current.PhoneNumber {
		if aerr := s.validatePhone(req.PhoneNumber); aerr != nil {
			return nil, aerr
		}
		if aerr := s.checkPhoneUnique(ctx, req.PhoneNumber); aerr != nil {
			return nil, aerr
		}
		updated.PhoneNumber = req.PhoneNumber
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (s *service) checkEmailUnique(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return apierror.Validation(model.ErrorEmailUnique, "email")
	}
	return nil
}

func (s *service) checkPhoneUnique(ctx context.Context, phone string) error {
	exists, err := s.repo.ExistsByPhoneNumber(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if exists {
		return apierror.Validation(model.ErrorPhoneNumberUnique, "phoneNumber")
	}
	return nil
}

func (s *service) validateName(value, field string) *apierror.AppError {
	switch {
	case !s.validate.Var(value, "min=2"):
		return apierror.Validation(model.ErrorTooShort, field)
	case !s.validate.Var(value, "max=32"):
		return apierror.Validation(model.ErrorTooLong, field)
	case !s.validate.Var(value, "latin"):
		return apierror.Validation(fieldMessage(field, "latin"), field)
	}
	return nil
}

func (s *service) validateEmail(value string) *apierror.AppError {
	switch {
	case !s.validate.Var(value, "max=255"):
		return apierror.Validation(model.ErrorTooLong, "email")
	case !s.validate.Var(value, "email"):
		return apierror.Validation(model.ErrorEmailFormat, "email")
	}
	return nil
}

func (s *service) validatePhone(value string) *apierror.AppError {
	switch {
	case !s.validate.Var(value, "max=16"):
		return apierror.Validation(model.ErrorTooLong, "phoneNumber")
	case !s.validate.Var(value, "phone"):
		return apierror.Validation(model.ErrorPhoneNumberFormat, "phoneNumber")
	}
	return nil
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return model.ErrorBlank
	case "min":
		return model.ErrorTooShort
	case "max":
		return model.ErrorTooLong
	case "email":
		return model.ErrorEmailFormat
	case "phone":
		return model.ErrorPhoneNumberFormat
	case "latin":
		if field == "firstName" {
			return model.ErrorFirstNameLatin
		}
		return model.ErrorLastNameLatin
	}
	return model.ErrorBlank
}
