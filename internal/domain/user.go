package domain

// UserKind is the explicit discriminant for staff accounts.
type UserKind string

const (
	UserKindAdministrator UserKind = "ADMINISTRATOR"
	UserKindEmployee      UserKind = "EMPLOYEE"
)

// Administrator manages categories, stations and reports.
type Administrator struct {
	ID           string
	Name         string
	PasswordHash string
	AccessLevel  int
}

// User is a tagged union over the staff account variants. Exactly one of
// Administrator or Employee is set, selected by Kind.
type User struct {
	Kind          UserKind
	Administrator *Administrator
	Employee      *Employee
}

// AdministratorUser wraps an administrator.
func AdministratorUser(a *Administrator) User {
	return User{Kind: UserKindAdministrator, Administrator: a}
}

// EmployeeUser wraps an employee.
func EmployeeUser(e *Employee) User {
	return User{Kind: UserKindEmployee, Employee: e}
}

// ID returns the variant's identifier.
func (u User) ID() string {
	switch u.Kind {
	case UserKindAdministrator:
		if u.Administrator != nil {
			return u.Administrator.ID
		}
	case UserKindEmployee:
		if u.Employee != nil {
			return u.Employee.ID
		}
	}
	return ""
}

// Name returns the variant's display name.
func (u User) Name() string {
	switch u.Kind {
	case UserKindAdministrator:
		if u.Administrator != nil {
			return u.Administrator.Name
		}
	case UserKindEmployee:
		if u.Employee != nil {
			return u.Employee.Name
		}
	}
	return ""
}

// PasswordHash returns the stored bcrypt hash.
func (u User) PasswordHash() string {
	switch u.Kind {
	case UserKindAdministrator:
		if u.Administrator != nil {
			return u.Administrator.PasswordHash
		}
	case UserKindEmployee:
		if u.Employee != nil {
			return u.Employee.PasswordHash
		}
	}
	return ""
}

// Valid reports whether the discriminant matches the populated variant.
func (u User) Valid() bool {
	switch u.Kind {
	case UserKindAdministrator:
		return u.Administrator != nil && u.Employee == nil
	case UserKindEmployee:
		return u.Employee != nil && u.Administrator == nil
	default:
		return false
	}
}
