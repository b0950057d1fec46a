// Package directory reads the employee, department, project and WBS tables
// owned by the HR directory. Nothing here writes to them.
package directory

import "time"

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Employee struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employeeNumber"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	DepartmentID   string `json:"departmentId,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
	Position       string `json:"position"`
	Status         string `json:"status"`
}

type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	ManagerID string     `json:"managerId,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type WbsItem struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"projectId"`
	WbsCode            string     `json:"wbsCode"`
	Title              string     `json:"title"`
	Level              int        `json:"level"`
	Status             string     `json:"status"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	ProgressPercentage int        `json:"progressPercentage"`
}

type Deliverable struct {
	ID          string    `json:"id"`
	WbsItemID   string    `json:"wbsItemId"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	FilePath    string    `json:"filePath,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	MinScore *int   `json:"minScore,omitempty"`
	MaxScore *int   `json:"maxScore,omitempty"`
}
