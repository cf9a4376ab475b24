package classification

import (
	"encoding/json"
	"fmt"
	"os"
)

// PatternRule is the declarative matching data for one class. Rules are
// data, not code: the default table below can be replaced wholesale via
// LoadRulesFile, and every key is validated against the taxonomy when the
// classifier is constructed.
type PatternRule struct {
	// Patterns are regular expressions tested per text source. Compiled
	// case-insensitively at construction.
	Patterns []string `json:"patterns"`
	// Exclude vetoes the class when it matches the field's own text, and
	// applies a confidence penalty when it matches only surrounding context.
	Exclude string `json:"exclude,omitempty"`
	// Context, when set, gates the rule: it must match the full label+name+
	// parent+sibling string for the rule to be eligible at all.
	Context string `json:"context,omitempty"`
	// Confidence is the base confidence of a pattern win for this class.
	Confidence float64 `json:"confidence"`
}

// LoadRulesFile reads a class→rule JSON table.
func LoadRulesFile(path string) (map[string]PatternRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var rules map[string]PatternRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules JSON: %w", err)
	}
	return rules, nil
}

// autofillHints maps platform autocomplete tokens onto canonical classes.
// These are supplied by the browser itself, not inferred, so they dominate
// every other signal.
var autofillHints = map[string]string{
	"name":              "full_name",
	"given-name":        "first_name",
	"additional-name":   "middle_name",
	"family-name":       "last_name",
	"nickname":          "preferred_name",
	"email":             "email",
	"tel":               "phone",
	"tel-national":      "phone",
	"tel-country-code":  "phone_country_code",
	"street-address":    "address_line1",
	"address-line1":     "address_line1",
	"address-line2":     "address_line2",
	"address-level2":    "city",
	"address-level1":    "state",
	"postal-code":       "zip_code",
	"country":           "country",
	"country-name":      "country",
	"bday":              "date_of_birth",
	"organization":      "company_name",
	"organization-title": "job_title",
	"url":               "website_url",
	"photo":             "resume_upload",
	"sex":               "gender",
	"language":          "languages_spoken",
}

// conflictPriority breaks exact score ties in the weighted scan. Classes
// absent from the table default to 0. Hand-tuned; see config for overrides.
var conflictPriority = map[string]int{
	"email":           4,
	"phone":           3,
	"first_name":      3,
	"last_name":       3,
	"zip_code":        2,
	"full_name":       1,
	"job_title":       1,
	"salary_expected": 1,
	"resume_upload":   1,
}

// defaultRules is the built-in pattern table. Compensation and date classes
// are deliberately thin here: the dedicated disambiguation stages upstream
// own those decisions, and these entries only catch phrasings those stages
// fall through on.
var defaultRules = map[string]PatternRule{
	"first_name": {
		Patterns:   []string{`\bfirst\s*name\b`, `\bgiven\s*name\b`, `\bforename\b`, `\bfname\b`, `^first$`},
		Exclude:    `last|family|middle|sur`,
		Confidence: 0.95,
	},
	"last_name": {
		Patterns:   []string{`\blast\s*name\b`, `\bfamily\s*name\b`, `\bsurname\b`, `\blname\b`, `^last$`},
		Exclude:    `first|given|middle`,
		Confidence: 0.95,
	},
	"middle_name": {
		Patterns:   []string{`\bmiddle\s*(name|initial)\b`, `\bmname\b`},
		Confidence: 0.93,
	},
	"full_name": {
		Patterns:   []string{`\bfull\s*name\b`, `\byour\s*name\b`, `\blegal\s*name\b`, `\bcomplete\s*name\b`, `^name$`},
		Exclude:    `first|last|middle|family|given|company|school|university|manager|contact`,
		Confidence: 0.90,
	},
	"preferred_name": {
		Patterns:   []string{`\bpreferred\s*name\b`, `\bnickname\b`, `\bknown\s*as\b`},
		Confidence: 0.92,
	},
	"pronouns": {
		Patterns:   []string{`\bpronouns?\b`},
		Confidence: 0.95,
	},
	"date_of_birth": {
		Patterns:   []string{`\b(date\s*of\s*birth|birth\s*date|birthday|dob)\b`, `\bborn\b`},
		Confidence: 0.95,
	},
	"email": {
		Patterns:   []string{`\be-?mail\b`, `\bemail\s*address\b`},
		Exclude:    `manager|supervisor|reference|referee`,
		Confidence: 0.97,
	},
	"phone": {
		Patterns:   []string{`\b(phone|mobile|telephone|cell)\b`, `\bcontact\s*(number|no)\b`},
		Exclude:    `country\s*code|dial\s*code`,
		Confidence: 0.95,
	},
	"phone_country_code": {
		Patterns:   []string{`\b(country|dial(ing)?)\s*code\b`},
		Context:    `phone|mobile|tel|contact`,
		Confidence: 0.92,
	},
	"address_line1": {
		Patterns:   []string{`\b(street\s*address|address\s*(line\s*)?1)\b`, `\baddress\b`},
		Exclude:    `email|line\s*2|apt|suite|unit|ip\s`,
		Confidence: 0.90,
	},
	"address_line2": {
		Patterns:   []string{`\baddress\s*line\s*2\b`, `\b(apt|apartment|suite|unit)\b`},
		Confidence: 0.90,
	},
	"city": {
		Patterns:   []string{`\b(city|town|locality)\b`},
		Confidence: 0.94,
	},
	"state": {
		Patterns:   []string{`\b(state|province|region)\b`},
		Exclude:    `united\s*states|statement`,
		Confidence: 0.90,
	},
	"zip_code": {
		Patterns:   []string{`\b(zip|postal|postcode|pin)\s*(code)?\b`},
		Confidence: 0.95,
	},
	"country": {
		Patterns:   []string{`\bcountry\b`, `\bnationality\s*of\s*residence\b`},
		Exclude:    `code|phone|citizen`,
		Confidence: 0.93,
	},
	"linkedin_url": {
		Patterns:   []string{`\blinked\s*-?in\b`},
		Confidence: 0.97,
	},
	"github_url": {
		Patterns:   []string{`\bgit\s*hub\b`, `\bgit\b`},
		Confidence: 0.96,
	},
	"portfolio_url": {
		Patterns:   []string{`\bportfolio\b`, `\bwork\s*samples\b`},
		Confidence: 0.94,
	},
	"website_url": {
		Patterns:   []string{`\b(personal\s*)?(website|web\s*site|homepage)\b`, `\bblog\b`},
		Exclude:    `linkedin|github|twitter|portfolio`,
		Confidence: 0.90,
	},
	"twitter_url": {
		Patterns:   []string{`\btwitter\b`, `\bx\s*(handle|profile)\b`},
		Confidence: 0.94,
	},
	"current_company": {
		Patterns:   []string{`\b(current|present)\s*(company|employer)\b`},
		Confidence: 0.94,
	},
	"current_title": {
		Patterns:   []string{`\bcurrent\s*(title|position|role)\b`},
		Confidence: 0.94,
	},
	"job_title": {
		Patterns:   []string{`\b(job\s*)?title\b`, `\b(position|role|designation|occupation)\b`},
		Exclude:    `current|company|book`,
		Confidence: 0.88,
	},
	"company_name": {
		Patterns:   []string{`\b(company|employer|organi[sz]ation|firm)\b`},
		Exclude:    `current|school|university|why`,
		Confidence: 0.90,
	},
	"job_location": {
		Patterns:   []string{`\b(job|work|office)\s*location\b`},
		Confidence: 0.92,
	},
	"job_description": {
		Patterns:   []string{`\b(responsibilit|duties|job\s*description)\b`, `\bdescribe\s*(your\s*)?(role|work)\b`},
		Confidence: 0.90,
	},
	"years_experience": {
		Patterns:   []string{`\byears?\s*(of\s*)?experience\b`, `\b(total|relevant)\s*experience\b`},
		Confidence: 0.93,
	},
	"manager_name": {
		Patterns:   []string{`\b(manager|supervisor)\b`},
		Confidence: 0.90,
	},
	"reason_for_leaving": {
		Patterns:   []string{`\breason\s*(for)?\s*(leaving|change)\b`, `\bwhy\s*(are\s*you\s*)?leaving\b`},
		Confidence: 0.92,
	},
	"school_name": {
		Patterns:   []string{`\b(school|university|college|institution|alma\s*mater)\b`},
		Exclude:    `high\s*school\s*diploma|degree`,
		Confidence: 0.90,
	},
	"degree": {
		Patterns:   []string{`\bdegree\b`, `\bqualification\b`, `\bdiploma\b`},
		Confidence: 0.92,
	},
	"field_of_study": {
		Patterns:   []string{`\b(major|field\s*of\s*study|speciali[sz]ation|discipline)\b`},
		Confidence: 0.92,
	},
	"gpa": {
		Patterns:   []string{`\b(gpa|cgpa|grade\s*point)\b`, `\b(grade|marks|percentage)\b`},
		Context:    `education|school|university|college|academic|degree|gpa|grade`,
		Confidence: 0.90,
	},
	"graduation_year": {
		Patterns:   []string{`\b(graduation|passing)\s*year\b`, `\byear\s*of\s*(graduation|passing)\b`, `\bbatch\b`},
		Confidence: 0.93,
	},
	"skills": {
		Patterns:   []string{`\bskills?\b`, `\b(technologies|competenc|expertise)\b`},
		Exclude:    `language`,
		Confidence: 0.90,
	},
	"languages_spoken": {
		Patterns:   []string{`\blanguages?\s*(spoken|known)?\b`, `\bfluen(t|cy)\b`},
		Exclude:    `programming|coding`,
		Confidence: 0.88,
	},
	"certifications": {
		Patterns:   []string{`\bcertifi(cation|cate)s?\b`, `\blicen[cs]es?\b`, `\baccreditation\b`},
		Exclude:    `driver|driving`,
		Confidence: 0.92,
	},
	"salary_expected": {
		Patterns:   []string{`\b(expected|desired|anticipated)\s*(salary|ctc|pay|compensation)\b`, `\bsalary\s*expectation\b`},
		Confidence: 0.95,
	},
	"salary_current": {
		Patterns:   []string{`\b(current|present|existing)\s*(salary|ctc|pay|compensation)\b`},
		Confidence: 0.95,
	},
	"notice_period": {
		Patterns:   []string{`\bnotice\s*period\b`, `\bserving\s*notice\b`},
		Confidence: 0.95,
	},
	"availability_date": {
		Patterns:   []string{`\bavailab(le|ility)\b`, `\b(earliest|joining)\s*(start\s*)?date\b`, `\bwhen\s*can\s*you\s*(start|join)\b`},
		Confidence: 0.90,
	},
	"employment_type": {
		Patterns:   []string{`\b(employment|job)\s*type\b`, `\b(full|part)[\s-]*time\b`},
		Confidence: 0.90,
	},
	"desired_location": {
		Patterns:   []string{`\b(desired|preferred)\s*location\b`, `\blocation\s*preference\b`},
		Confidence: 0.92,
	},
	"willing_to_relocate": {
		Patterns:   []string{`\brelocat(e|ion)\b`, `\bwilling\s*to\s*move\b`},
		Confidence: 0.93,
	},
	"remote_preference": {
		Patterns:   []string{`\b(remote|hybrid|on-?site)\b`, `\bwork\s*from\s*home\b`},
		Confidence: 0.88,
	},
	"work_authorization": {
		Patterns:   []string{`\b(legally\s*)?authori[sz]ed\s*to\s*work\b`, `\bwork\s*(authori[sz]ation|permit)\b`, `\bright\s*to\s*work\b`},
		Confidence: 0.94,
	},
	"visa_sponsorship": {
		Patterns:   []string{`\bsponsorship\b`, `\bvisa\b`, `\bh-?1b\b`},
		Confidence: 0.93,
	},
	"security_clearance": {
		Patterns:   []string{`\b(security\s*)?clearance\b`},
		Confidence: 0.94,
	},
	"gender": {
		Patterns:   []string{`\bgender\b`, `\bsex\b`},
		Confidence: 0.95,
	},
	"race_ethnicity": {
		Patterns:   []string{`\b(race|ethnicity|ethnic)\b`},
		Confidence: 0.94,
	},
	"veteran_status": {
		Patterns:   []string{`\bveteran\b`, `\b(military|armed\s*forces)\b`},
		Confidence: 0.94,
	},
	"disability_status": {
		Patterns:   []string{`\bdisab(ility|led)\b`, `\bimpairment\b`},
		Confidence: 0.94,
	},
	"nationality": {
		Patterns:   []string{`\b(nationality|citizenship|citizen)\b`},
		Confidence: 0.92,
	},
	"cover_letter": {
		Patterns:   []string{`\bcover\s*letter\b`, `\bmotivation\s*letter\b`, `\bwhy\s*(do\s*you\s*want\s*to\s*)?(join|work)\b`},
		Confidence: 0.92,
	},
	"resume_upload": {
		Patterns:   []string{`\b(resume|cv|curriculum\s*vitae)\b`, `\battach\b`},
		Exclude:    `cover\s*letter`,
		Confidence: 0.94,
	},
	"references": {
		Patterns:   []string{`\breferences?\b`, `\breferees?\b`},
		Exclude:    `referral|hear`,
		Confidence: 0.90,
	},
	"referral_source": {
		Patterns:   []string{`\bhow\s*did\s*you\s*(hear|find)\b`, `\breferr(al|ed)\b`, `\bsource\b`},
		Confidence: 0.88,
	},
	"driver_license": {
		Patterns:   []string{`\bdriv(er'?s?|ing)\s*licen[cs]e\b`},
		Confidence: 0.94,
	},
}

// DefaultRules returns the built-in pattern table.
func DefaultRules() map[string]PatternRule {
	return defaultRules
}
