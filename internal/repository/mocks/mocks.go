package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/subhstories/clientmanager/internal/domain/client"
)

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ClientRepository) Load(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Save(ctx context.Context, clients []client.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

// Observer is a mock for client.Observer.
type Observer struct {
	mock.Mock
}

func (m *Observer) ObserveMutation(op string, err error) {
	m.Called(op, err)
}

func (m *Observer) ObserveSave(elapsed time.Duration, err error) {
	m.Called(elapsed, err)
}
