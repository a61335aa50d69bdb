package mocks

import "github.com/stretchr/testify/mock"

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) DataURI(content string) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}
