package features

// defaultKeywords maps each taxonomy class to the normalized keyword phrases
// whose presence drives that class's slot in the feature vector. This table
// is data, not logic: it can be replaced wholesale via LoadKeywordsFile as
// long as every key is a canonical taxonomy class.
var defaultKeywords = map[string][]string{
	"first_name":           {"first name", "given name", "forename", "first"},
	"last_name":            {"last name", "family name", "surname", "last"},
	"middle_name":          {"middle name", "middle initial", "middle"},
	"full_name":            {"full name", "your name", "legal name", "complete name"},
	"preferred_name":       {"preferred name", "nickname", "known as"},
	"pronouns":             {"pronouns", "pronoun"},
	"date_of_birth":        {"date birth", "birth date", "birthday", "dob", "born"},
	"email":                {"email", "mail address", "email address"},
	"phone":                {"phone", "mobile", "telephone", "cell", "contact number"},
	"phone_country_code":   {"country code", "dial code", "phone code"},
	"address_line1":        {"address", "street address", "address line 1", "street"},
	"address_line2":        {"address line 2", "apt", "apartment", "suite", "unit"},
	"city":                 {"city", "town", "locality"},
	"state":                {"state", "province", "region"},
	"zip_code":             {"zip", "zip code", "postal code", "postcode", "pin code"},
	"country":              {"country", "nation"},
	"linkedin_url":         {"linkedin", "linkedin profile", "linkedin url"},
	"github_url":           {"github", "github profile", "git"},
	"portfolio_url":        {"portfolio", "portfolio url", "work samples"},
	"website_url":          {"website", "personal website", "homepage", "blog"},
	"twitter_url":          {"twitter", "x profile", "twitter handle"},
	"current_company":      {"current company", "current employer", "present company"},
	"current_title":        {"current title", "current position", "current role"},
	"job_title":            {"job title", "title", "position", "role", "designation", "occupation"},
	"company_name":         {"company", "employer", "organization", "firm"},
	"job_location":         {"job location", "work location", "office location"},
	"job_start_date":       {"start date", "from date", "employed from", "date joined"},
	"job_end_date":         {"end date", "to date", "employed to", "date left"},
	"job_description":      {"responsibilities", "job description", "duties", "describe role"},
	"years_experience":     {"years experience", "experience years", "total experience", "work experience"},
	"manager_name":         {"manager", "supervisor", "reporting manager"},
	"reason_for_leaving":   {"reason leaving", "why leave", "reason change"},
	"school_name":          {"school", "university", "college", "institution", "alma mater"},
	"degree":               {"degree", "qualification", "diploma", "bachelor", "master", "phd"},
	"field_of_study":       {"major", "field study", "specialization", "discipline", "course"},
	"gpa":                  {"gpa", "grade", "grade point", "cgpa", "marks", "percentage"},
	"education_start_date": {"education start", "enrolled", "start date"},
	"education_end_date":   {"education end", "graduated", "end date"},
	"graduation_year":      {"graduation year", "year graduation", "passing year", "batch"},
	"skills":               {"skills", "skill set", "technologies", "competencies", "expertise"},
	"languages_spoken":     {"languages", "language spoken", "fluent"},
	"certifications":       {"certifications", "certificates", "licenses", "accreditation"},
	"salary_expected":      {"expected salary", "desired salary", "salary expectation", "expected ctc", "desired pay", "expected compensation"},
	"salary_current":       {"current salary", "present salary", "current ctc", "current pay", "current compensation"},
	"notice_period":        {"notice period", "notice", "serving notice"},
	"availability_date":    {"available from", "availability", "earliest start", "join date", "joining date", "start availability"},
	"employment_type":      {"employment type", "job type", "full time", "part time", "contract", "internship"},
	"desired_location":     {"desired location", "preferred location", "location preference"},
	"willing_to_relocate":  {"relocate", "relocation", "willing move"},
	"remote_preference":    {"remote", "work from home", "hybrid", "onsite"},
	"work_authorization":   {"authorized work", "work authorization", "legally authorized", "right work", "work permit"},
	"visa_sponsorship":     {"sponsorship", "visa", "require sponsorship", "h1b"},
	"security_clearance":   {"security clearance", "clearance"},
	"gender":               {"gender", "sex"},
	"race_ethnicity":       {"race", "ethnicity", "ethnic"},
	"veteran_status":       {"veteran", "military", "armed forces"},
	"disability_status":    {"disability", "disabled", "impairment"},
	"nationality":          {"nationality", "citizenship", "citizen"},
	"cover_letter":         {"cover letter", "motivation letter", "why company", "why join"},
	"resume_upload":        {"resume", "cv", "curriculum vitae", "upload resume", "attach"},
	"references":           {"references", "referees", "reference contact"},
	"referral_source":      {"how hear", "referral", "heard about", "source", "referred by"},
	"driver_license":       {"driver license", "driving licence", "license number"},
}

// DefaultKeywords returns the built-in keyword table.
func DefaultKeywords() map[string][]string {
	return defaultKeywords
}
