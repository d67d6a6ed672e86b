package service

import (
	"fmt"
	"log"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
)

// SystemService prepares a fresh database: privileges, roles with their
// privilege sets and the first-admin bootstrap flag. Safe to run on every start.
type SystemService interface {
	Initialize() error
}

type systemService struct {
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	systemRepo    repository.SystemRepository
	userRepo      repository.UserRepository
}

func NewSystemService(privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, systemRepo repository.SystemRepository, userRepo repository.UserRepository) SystemService {
	return &systemService{
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		systemRepo:    systemRepo,
		userRepo:      userRepo,
	}
}

func (s *systemService) Initialize() error {
	if err := s.privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := s.roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	all, err := s.privilegeRepo.FindAll()
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}
	staff, err := s.privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
	if err != nil {
		return fmt.Errorf("load staff privileges: %w", err)
	}

	grants := map[string][]model.Privilege{
		model.RoleAdmin: all,
		model.RoleStaff: staff,
	}
	for code, privileges := range grants {
		role, err := s.roleRepo.FindByCode(code)
		if err != nil {
			return fmt.Errorf("load role %s: %w", code, err)
		}
		if err := s.roleRepo.AssignPrivileges(role, privileges); err != nil {
			return fmt.Errorf("assign privileges to %s: %w", code, err)
		}
	}

	// Databases that already hold an admin start out bootstrapped
	admins, err := s.userRepo.CountByRoleCode(model.RoleAdmin, false)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	flag := model.SettingFalse
	if admins > 0 {
		flag = model.SettingTrue
	}
	if err := s.systemRepo.EnsureSetting(model.SettingAdminBootstrapped, flag); err != nil {
		return fmt.Errorf("bootstrap flag: %w", err)
	}

	log.Println("System initialized: privileges, roles and bootstrap flag in place")
	return nil
}
