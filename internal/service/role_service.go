package service

import (
	"context"
	"fmt"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
)

// RoleService is plain CRUD over roles plus a by-name lookup. Role
// changes are admin-only; the check lives in the transport layer.
type RoleService interface {
	GetByID(ctx context.Context, id uint64) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	GetAll(ctx context.Context) ([]model.Role, error)
	Add(ctx context.Context, role *model.Role) (*model.Role, error)
	Modify(ctx context.Context, role *model.Role) (*model.Role, error)
	Delete(ctx context.Context, id uint64) error
}

type roleService struct {
	roles repository.RoleRepository
}

// NewRoleService wires a RoleService over the given repository.
func NewRoleService(roles repository.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

func (s *roleService) GetByID(ctx context.Context, id uint64) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get role %d", id), Err: err}
	}
	return role, nil
}

func (s *roleService) GetByName(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get role %q", name), Err: err}
	}
	return role, nil
}

func (s *roleService) GetAll(ctx context.Context) ([]model.Role, error) {
	out, err := s.roles.GetAll(ctx)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list roles", Err: err}
	}
	return out, nil
}

func (s *roleService) Add(ctx context.Context, role *model.Role) (*model.Role, error) {
	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, &AddFailure{Msg: "could not add role", Err: err}
	}
	return created, nil
}

func (s *roleService) Modify(ctx context.Context, role *model.Role) (*model.Role, error) {
	if role.ID == 0 {
		return nil, &ModifyFailure{Msg: "role id is required for modification"}
	}
	updated, err := s.roles.Update(ctx, role)
	if err != nil {
		return nil, &ModifyFailure{Msg: fmt.Sprintf("could not modify role %d", role.ID), Err: err}
	}
	return updated, nil
}

func (s *roleService) Delete(ctx context.Context, id uint64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return &DeleteFailure{Msg: fmt.Sprintf("could not delete role %d", id), Err: err}
	}
	return nil
}
