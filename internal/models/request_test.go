package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSelfRequest(t *testing.T) {
	five, seven := 5, 7

	req := EmployeeRequest{RequesterID: 5, TargetEmployeeID: &five}
	assert.True(t, req.IsSelfRequest())

	req = EmployeeRequest{RequesterID: 5, TargetEmployeeID: &seven}
	assert.False(t, req.IsSelfRequest())

	// Без целевого сотрудника заявка не считается заявкой на себя
	req = EmployeeRequest{RequesterID: 5}
	assert.False(t, req.IsSelfRequest())
}

func TestIsValidForRequestType(t *testing.T) {
	posID, depID := 3, 2

	req := EmployeeRequest{RequestType: RequestTypePositionChange, NewPositionID: &posID}
	assert.True(t, req.IsValidForRequestType())

	req = EmployeeRequest{RequestType: RequestTypePositionChange}
	assert.False(t, req.IsValidForRequestType())

	req = EmployeeRequest{RequestType: RequestTypeDepartmentChange, NewDepartmentID: &depID}
	assert.True(t, req.IsValidForRequestType())

	req = EmployeeRequest{RequestType: RequestTypeDepartmentChange}
	assert.False(t, req.IsValidForRequestType())

	req = EmployeeRequest{RequestType: "UNKNOWN", NewPositionID: &posID}
	assert.False(t, req.IsValidForRequestType())
}
