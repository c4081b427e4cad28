package domain

type Role string

const (
	RoleAuthenticated Role = "authenticated"
	RoleSpecialist    Role = "specialist"
	RoleAdmin         Role = "admin"
)

type ProfileSection string

const (
	SectionProfile          ProfileSection = "profile"
	SectionBookings         ProfileSection = "bookings"
	SectionArticles         ProfileSection = "articles"
	SectionReviews          ProfileSection = "reviews"
	SectionSchedule         ProfileSection = "schedule"
	SectionAdminServices    ProfileSection = "admin-services"
	SectionAdminSpecialists ProfileSection = "admin-specialists"
	SectionAdminReviews     ProfileSection = "admin-reviews"
	SectionAdminArticles    ProfileSection = "admin-articles"
	SectionAdminStats       ProfileSection = "admin-stats"
	SectionAdminContacts    ProfileSection = "admin-contacts"
	SectionSettings         ProfileSection = "settings"
)

// CanManageSchedule сообщает, доступно ли роли управление расписанием.
// Админ также считается специалистом.
func (r Role) CanManageSchedule() bool {
	return r == RoleSpecialist || r == RoleAdmin
}

// SectionsForRole - чистая функция, отображающая роль в упорядоченный список
// доступных разделов личного кабинета. Никакого состояния и динамики:
// состав меню полностью определяется ролью.
func SectionsForRole(role Role) []ProfileSection {
	sections := []ProfileSection{SectionProfile, SectionBookings}

	if role.CanManageSchedule() {
		sections = append(sections, SectionArticles, SectionReviews, SectionSchedule)
	}

	if role == RoleAdmin {
		sections = append(sections,
			SectionAdminServices,
			SectionAdminSpecialists,
			SectionAdminReviews,
			SectionAdminArticles,
			SectionAdminStats,
			SectionAdminContacts,
		)
	}

	// Настройки доступны всем и всегда идут последними
	return append(sections, SectionSettings)
}
