package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
)

func TestApplyDefault(t *testing.T) {
	reg := repository.NewRegistry()
	require.True(t, reg.Empty())

	require.NoError(t, Apply(reg, Default(), 4))
	assert.False(t, reg.Empty())

	assert.Len(t, reg.Categories.List(), 4)
	assert.Len(t, reg.Stations.List(), 3)
	assert.Len(t, reg.Clients.List(), 3)

	admin, err := reg.Users.Get("admin")
	require.NoError(t, err)
	assert.Equal(t, domain.UserKindAdministrator, admin.Kind)
	assert.Equal(t, 3, admin.Administrator.AccessLevel)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash(), "admin123"))

	emp3, err := reg.Users.Employee("emp3")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityOffline, emp3.Availability())

	station3, err := reg.Stations.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "emp3", station3.EmployeeID())
	assert.Equal(t, []int{4, 1}, station3.CategoryIDs())

	general, err := reg.Categories.GetByPrefix("GEN")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"emp1", "emp3"}, general.Employees())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := `
categories:
  - id: 1
    name: Payments
    prefix: pay
    inactive: true
stations:
  - id: 1
    number: 7
    categories: [1]
employees:
  - id: e1
    name: Ada
    password: secret
    station: 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	data, err := Load(path)
	require.NoError(t, err)

	reg := repository.NewRegistry()
	require.NoError(t, Apply(reg, data, 4))

	category, err := reg.Categories.GetByPrefix("PAY")
	require.NoError(t, err)
	assert.False(t, category.IsActive())

	station, err := reg.Stations.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 7, station.Number)
	assert.Equal(t, "e1", station.EmployeeID())
}

func TestParseRejectsBrokenReferences(t *testing.T) {
	cases := map[string]string{
		"unknown station category": "stations:\n  - {id: 1, number: 1, categories: [9]}\n",
		"unknown employee station": "employees:\n  - {id: e1, password: x, station: 4}\n",
		"duplicate prefix": "categories:\n  - {id: 1, name: A, prefix: GEN}\n  - {id: 2, name: B, prefix: gen}\n",
		"shared station": "stations:\n  - {id: 1, number: 1}\n" +
			"employees:\n  - {id: e1, password: x, station: 1}\n  - {id: e2, password: x, station: 1}\n",
		"malformed": "categories: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	data, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, data.Validate())
	assert.Equal(t, Default(), data)
}
