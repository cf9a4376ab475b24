package taxonomy

// Category names used by the default taxonomy. The arbitration policy keys
// its threshold profiles off these.
const (
	CategoryIdentity       = "identity"
	CategoryContact        = "contact"
	CategoryLocation       = "location"
	CategoryOnlinePresence = "online_presence"
	CategoryWorkExperience = "work_experience"
	CategoryEducation      = "education"
	CategorySkills         = "skills"
	CategoryCompensation   = "compensation"
	CategoryAvailability   = "availability"
	CategoryAuthorization  = "authorization"
	CategoryDemographics   = "demographics"
	CategoryDocuments      = "documents"
	CategoryOther          = "other"
)

// UnparsedQuestion is the low-confidence fallback class the learned
// classifier emits instead of a weak specific guess.
const UnparsedQuestion = "unparsed_question"

// defaultClasses is the ordered default class list. Appending is safe;
// reordering breaks persisted model snapshots.
var defaultClasses = []string{
	Unknown,
	"first_name",
	"last_name",
	"middle_name",
	"full_name",
	"preferred_name",
	"pronouns",
	"date_of_birth",
	"email",
	"phone",
	"phone_country_code",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"zip_code",
	"country",
	"linkedin_url",
	"github_url",
	"portfolio_url",
	"website_url",
	"twitter_url",
	"current_company",
	"current_title",
	"job_title",
	"company_name",
	"job_location",
	"job_start_date",
	"job_end_date",
	"job_description",
	"years_experience",
	"manager_name",
	"reason_for_leaving",
	"school_name",
	"degree",
	"field_of_study",
	"gpa",
	"education_start_date",
	"education_end_date",
	"graduation_year",
	"skills",
	"languages_spoken",
	"certifications",
	"salary_expected",
	"salary_current",
	"notice_period",
	"availability_date",
	"employment_type",
	"desired_location",
	"willing_to_relocate",
	"remote_preference",
	"work_authorization",
	"visa_sponsorship",
	"security_clearance",
	"gender",
	"race_ethnicity",
	"veteran_status",
	"disability_status",
	"nationality",
	"cover_letter",
	"resume_upload",
	"references",
	"referral_source",
	"driver_license",
	UnparsedQuestion,
}

var defaultCategories = map[string]string{
	"first_name":           CategoryIdentity,
	"last_name":            CategoryIdentity,
	"middle_name":          CategoryIdentity,
	"full_name":            CategoryIdentity,
	"preferred_name":       CategoryIdentity,
	"pronouns":             CategoryIdentity,
	"date_of_birth":        CategoryIdentity,
	"email":                CategoryContact,
	"phone":                CategoryContact,
	"phone_country_code":   CategoryContact,
	"address_line1":        CategoryLocation,
	"address_line2":        CategoryLocation,
	"city":                 CategoryLocation,
	"state":                CategoryLocation,
	"zip_code":             CategoryLocation,
	"country":              CategoryLocation,
	"linkedin_url":         CategoryOnlinePresence,
	"github_url":           CategoryOnlinePresence,
	"portfolio_url":        CategoryOnlinePresence,
	"website_url":          CategoryOnlinePresence,
	"twitter_url":          CategoryOnlinePresence,
	"current_company":      CategoryWorkExperience,
	"current_title":        CategoryWorkExperience,
	"job_title":            CategoryWorkExperience,
	"company_name":         CategoryWorkExperience,
	"job_location":         CategoryWorkExperience,
	"job_start_date":       CategoryWorkExperience,
	"job_end_date":         CategoryWorkExperience,
	"job_description":      CategoryWorkExperience,
	"years_experience":     CategoryWorkExperience,
	"manager_name":         CategoryWorkExperience,
	"reason_for_leaving":   CategoryWorkExperience,
	"school_name":          CategoryEducation,
	"degree":               CategoryEducation,
	"field_of_study":       CategoryEducation,
	"gpa":                  CategoryEducation,
	"education_start_date": CategoryEducation,
	"education_end_date":   CategoryEducation,
	"graduation_year":      CategoryEducation,
	"skills":               CategorySkills,
	"languages_spoken":     CategorySkills,
	"certifications":       CategorySkills,
	"salary_expected":      CategoryCompensation,
	"salary_current":       CategoryCompensation,
	"notice_period":        CategoryAvailability,
	"availability_date":    CategoryAvailability,
	"employment_type":      CategoryAvailability,
	"desired_location":     CategoryAvailability,
	"willing_to_relocate":  CategoryAvailability,
	"remote_preference":    CategoryAvailability,
	"work_authorization":   CategoryAuthorization,
	"visa_sponsorship":     CategoryAuthorization,
	"security_clearance":   CategoryAuthorization,
	"gender":               CategoryDemographics,
	"race_ethnicity":       CategoryDemographics,
	"veteran_status":       CategoryDemographics,
	"disability_status":    CategoryDemographics,
	"nationality":          CategoryDemographics,
	"cover_letter":         CategoryDocuments,
	"resume_upload":        CategoryDocuments,
	"references":           CategoryDocuments,
	"driver_license":       CategoryDocuments,
	"referral_source":      CategoryOther,
	UnparsedQuestion:       CategoryOther,
}

// defaultAliases collapses class names used by older pattern sets onto the
// canonical taxonomy. One hop only; targets must be canonical.
var defaultAliases = map[string]string{
	"given_name":         "first_name",
	"family_name":        "last_name",
	"surname":            "last_name",
	"forename":           "first_name",
	"name":               "full_name",
	"email_address":      "email",
	"phone_number":       "phone",
	"mobile":             "phone",
	"mobile_number":      "phone",
	"telephone":          "phone",
	"street_address":     "address_line1",
	"address":            "address_line1",
	"postal_code":        "zip_code",
	"postcode":           "zip_code",
	"zipcode":            "zip_code",
	"province":           "state",
	"region":             "state",
	"linkedin":           "linkedin_url",
	"github":             "github_url",
	"portfolio":          "portfolio_url",
	"website":            "website_url",
	"personal_website":   "website_url",
	"twitter":            "twitter_url",
	"company":            "company_name",
	"employer":           "company_name",
	"position":           "job_title",
	"role":               "job_title",
	"designation":        "job_title",
	"title":              "job_title",
	"university":         "school_name",
	"college":            "school_name",
	"institution":        "school_name",
	"school":             "school_name",
	"major":              "field_of_study",
	"qualification":      "degree",
	"expected_salary":    "salary_expected",
	"expected_ctc":       "salary_expected",
	"desired_salary":     "salary_expected",
	"salary_expect":      "salary_expected",
	"current_salary":     "salary_current",
	"current_ctc":        "salary_current",
	"compensation":       "salary_expected",
	"start_availability": "availability_date",
	"joining_date":       "availability_date",
	"resume":             "resume_upload",
	"cv":                 "resume_upload",
	"cv_upload":          "resume_upload",
	"how_did_you_hear":   "referral_source",
	"ethnicity":          "race_ethnicity",
	"race":               "race_ethnicity",
	"sex":                "gender",
	"dob":                "date_of_birth",
	"birthday":           "date_of_birth",
	"citizenship":        "nationality",
}

// Default returns the built-in taxonomy. It panics only on a programming
// error in the static tables above, which the package test locks down.
func Default() *Taxonomy {
	t, err := New(defaultClasses, defaultCategories, defaultAliases)
	if err != nil {
		panic("taxonomy: invalid default tables: " + err.Error())
	}
	return t
}
