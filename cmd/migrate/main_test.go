package main

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error { return m.Called().Error(0) }

func (m *MockMigrator) Steps(n int) error { return m.Called(n).Error(0) }

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockMigrator) Force(v int) error { return m.Called(v).Error(0) }

func TestRun(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(nil)

		assert.NoError(t, run(m, "up", -1))
		m.AssertExpectations(t)
	})

	t.Run("Up no change", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(migrate.ErrNoChange)

		assert.NoError(t, run(m, "up", -1))
	})

	t.Run("Up failure", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(errors.New("syntax error"))

		err := run(m, "up", -1)
		assert.ErrorContains(t, err, "could not run migrations")
	})

	t.Run("Down one step", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Steps", -1).Return(nil)

		assert.NoError(t, run(m, "down", -1))
		m.AssertExpectations(t)
	})

	t.Run("Down with nothing applied", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Steps", -1).Return(os.ErrNotExist)

		assert.NoError(t, run(m, "down", -1))
	})

	t.Run("Version", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Version").Return(uint(1), false, nil)

		assert.NoError(t, run(m, "version", -1))
	})

	t.Run("Force requires version", func(t *testing.T) {
		m := new(MockMigrator)

		assert.Error(t, run(m, "force", -1))
		m.AssertNotCalled(t, "Force", mock.Anything)
	})

	t.Run("Force", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Force", 1).Return(nil)

		assert.NoError(t, run(m, "force", 1))
	})

	t.Run("Unknown mode", func(t *testing.T) {
		err := run(new(MockMigrator), "sideways", -1)
		assert.ErrorContains(t, err, "unknown mode")
	})
}

func TestSourceURL(t *testing.T) {
	u, err := sourceURL("migrations")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"))
	assert.True(t, strings.HasSuffix(u, "/migrations"))
}

func TestMigrationFiles(t *testing.T) {
	u, err := sourceURL("../../migrations")
	require.NoError(t, err)

	src, err := source.Open(u)
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "missing up migration for %d", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "missing down migration for %d", version)
		down.Close()

		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}
}
