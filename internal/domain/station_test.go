package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStationOpenRequiresEmployee(t *testing.T) {
	st := NewStation(1, 1)
	assert.Equal(t, StationStatusClosed, st.Status())
	assert.False(t, st.Open())

	st.SetEmployee("emp1")
	assert.True(t, st.Open())
	assert.Equal(t, StationStatusOpen, st.Status())

	st.SetEmployee("")
	assert.Equal(t, StationStatusClosed, st.Status())
}

func TestStationCategoriesKeepOrder(t *testing.T) {
	st := NewStation(1, 1)
	assert.True(t, st.AddCategory(3))
	assert.True(t, st.AddCategory(1))
	assert.False(t, st.AddCategory(3))
	assert.Equal(t, []int{3, 1}, st.CategoryIDs())
	assert.True(t, st.Supports(1))

	assert.True(t, st.RemoveCategory(3))
	assert.False(t, st.RemoveCategory(3))
	assert.Equal(t, []int{1}, st.CategoryIDs())
	assert.False(t, st.Supports(3))
}

func TestRestoreStationDropsUnstaffedOpen(t *testing.T) {
	st := RestoreStation(2, 2, StationStatusOpen, "", []int{2})
	assert.Equal(t, StationStatusClosed, st.Status())

	st = RestoreStation(2, 2, StationStatusOpen, "emp2", []int{2})
	assert.Equal(t, StationStatusOpen, st.Status())
	assert.Equal(t, "emp2", st.EmployeeID())
}
