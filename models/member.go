package models

type Member struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	IDNumber     string   `json:"idnumber"`
	Phone1       string   `json:"phone1"`
	Phone2       string   `json:"phone2"`
	Roles        []string `json:"roles"`
}

func (m Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Field returns the profile value used by kiosk lookup; unknown names yield "".
func (m Member) Field(name string) string {
	switch name {
	case "idnumber":
		return m.IDNumber
	case "email":
		return m.Email
	case "username":
		return m.Username
	case "phone1":
		return m.Phone1
	case "phone2":
		return m.Phone2
	case "firstname":
		return m.FirstName
	case "lastname":
		return m.LastName
	}
	return ""
}

const (
	CourseRoleStudent = "student"
	CourseRoleTeacher = "teacher"
)

type Group struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
}
