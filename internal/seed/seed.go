// Package seed loads users and opportunities from a YAML fixture through the services,
// so fixture data passes the same validation as API input.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"salespipeline/internal/model"
	"salespipeline/internal/repository"
	"salespipeline/internal/service"
	"salespipeline/internal/validation"
)

// Fixture is the document layout of a seed file.
type Fixture struct {
	Users         []UserFixture        `yaml:"users"`
	Opportunities []OpportunityFixture `yaml:"opportunities"`
}

// UserFixture describes one user. Key is how opportunities in the same file refer to it.
type UserFixture struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// OpportunityFixture describes one opportunity. AssignedTo is a user key from the same
// file or the id of a user that already exists.
type OpportunityFixture struct {
	Name             string `yaml:"name"`
	Stage            string `yaml:"stage"`
	Amount           string `yaml:"amount"`
	CloseDate        string `yaml:"close_date"`
	AssignedTo       string `yaml:"assigned_to"`
	CustomerName     string `yaml:"customer_name"`
	LastActivityDate string `yaml:"last_activity_date"`
	DealProbability  int    `yaml:"deal_probability"`
}

// Result counts the records created by Apply.
type Result struct {
	Users         int
	Opportunities int
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture document.
func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &fx, nil
}

// Seeder writes fixtures through the services, bound to one transaction of Store.
type Seeder struct {
	Store     repository.Store
	Validator *validation.Validator
	Logger    *zap.Logger
}

// Apply creates every user, then every opportunity, in a single transaction.
// Any failure rolls the whole fixture back and the returned Result is zero.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (Result, error) {
	var res Result
	err := s.Store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		res = Result{}
		users := service.NewUserService(tx, s.Validator, s.Logger)
		opportunities := service.NewOpportunityService(tx, s.Validator, s.Logger)
		ids := make(map[string]string, len(fx.Users))

		for i, u := range fx.Users {
			created, err := users.CreateUser(ctx, service.CreateUserInput{
				Name:  u.Name,
				Email: u.Email,
				Role:  model.Role(u.Role),
			})
			if err != nil {
				return fmt.Errorf("user %d (%s): %w", i, u.Key, err)
			}
			if u.Key != "" {
				ids[u.Key] = created.ID
			}
			res.Users++
			s.Logger.Debug("seeded user", zap.String("key", u.Key), zap.String("id", created.ID))
		}

		for i, o := range fx.Opportunities {
			input, err := o.toModel(ids)
			if err != nil {
				return fmt.Errorf("opportunity %d (%s): %w", i, o.Name, err)
			}
			created, err := opportunities.CreateOpportunity(ctx, input)
			if err != nil {
				return fmt.Errorf("opportunity %d (%s): %w", i, o.Name, err)
			}
			res.Opportunities++
			s.Logger.Debug("seeded opportunity", zap.String("name", o.Name), zap.String("id", created.ID))
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.Logger.Info("seed applied", zap.Int("users", res.Users), zap.Int("opportunities", res.Opportunities))
	return res, nil
}

func (o OpportunityFixture) toModel(ids map[string]string) (model.NewSalesOpportunity, error) {
	amount, err := decimal.NewFromString(o.Amount)
	if err != nil {
		return model.NewSalesOpportunity{}, fmt.Errorf("amount %q: %w", o.Amount, err)
	}
	closeDate, err := model.ParseFlexTime(o.CloseDate)
	if err != nil {
		return model.NewSalesOpportunity{}, fmt.Errorf("close_date: %w", err)
	}
	lastActivity, err := model.ParseFlexTime(o.LastActivityDate)
	if err != nil {
		return model.NewSalesOpportunity{}, fmt.Errorf("last_activity_date: %w", err)
	}
	assignee := o.AssignedTo
	if id, ok := ids[assignee]; ok {
		assignee = id
	}
	return model.NewSalesOpportunity{
		Name:             o.Name,
		Stage:            model.Stage(o.Stage),
		Amount:           amount,
		CloseDate:        closeDate,
		AssignedToID:     assignee,
		CustomerName:     o.CustomerName,
		LastActivityDate: lastActivity,
		DealProbability:  o.DealProbability,
	}, nil
}
