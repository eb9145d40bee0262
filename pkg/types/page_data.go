package types

import "time"

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
	UserName        string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	Notice       string
	Error        string
	FeaturedJobs []*Job
	RecentJobs   []*Job
}

type JobsPageData struct {
	BasePageData
	Jobs       []*Job
	Categories []*Category
	Category   string
}

type JobDetailPageData struct {
	BasePageData
	Job            *Job
	EmployerName   string
	CanApply       bool
	AlreadyApplied bool
	Notice         string
	Error          string
}

type LoginPageData struct {
	BasePageData
	Message string
	Error   string
	Email   string
}

type RegisterPageData struct {
	BasePageData
	GivenName   string
	FamilyName  string
	Email       string
	Error       string
	FieldErrors map[string]string
}

type ConfirmRegisterPageData struct {
	BasePageData
	Email   string
	Error   string
	Message string
}

type OnboardingPageData struct {
	BasePageData
	Error string
}

// AttachmentView is an attachment resolved for display: cached metadata plus
// a short-lived document URL.
type AttachmentView struct {
	ID            string
	FileName      string
	FileSizeBytes int64
	ContentType   string
	URL           string
	UploadedAt    time.Time
}

type SlotView struct {
	Name        SlotName
	Label       string
	Attachments []AttachmentView
}

type IdentificationPageData struct {
	BasePageData
	Status       AccountStatus
	Slots        []SlotView
	MissingSlots []string
	Notice       string
	Warning      string
	Error        string
}

type SettingsPageData struct {
	BasePageData
	User   *User
	Notice string
	Error  string
}

type EmployerJobsPageData struct {
	BasePageData
	Jobs   []*Job
	Notice string
	Error  string
}

type JobFormPageData struct {
	BasePageData
	Job         *Job
	Categories  []*Category
	IsNew       bool
	Error       string
	FieldErrors map[string]string
}

type ApplicationView struct {
	Application    *Application
	Job            *Job
	FreelancerName string
}

type JobApplicationsPageData struct {
	BasePageData
	Job          *Job
	Applications []ApplicationView
	Notice       string
	Error        string
}

type MyApplicationsPageData struct {
	BasePageData
	Applications []ApplicationView
}
