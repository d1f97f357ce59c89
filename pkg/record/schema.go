package record

// Column names shared by the form, the upload format and the model.
const (
	ColIncome                 = "income"
	ColName                   = "name"
	ColEmail                  = "email"
	ColNameEmailSimilarity    = "name_email_similarity"
	ColPrevAddressMonths      = "prev_address_months_count"
	ColCurrentAddressMonths   = "current_address_months_count"
	ColCustomerAge            = "customer_age"
	ColDaysSinceRequest       = "days_since_request"
	ColIntendedBalcon         = "intended_balcon_amount"
	ColZipCount4w             = "zip_count_4w"
	ColVelocity6h             = "velocity_6h"
	ColVelocity24h            = "velocity_24h"
	ColBankBranchCount8w      = "bank_branch_count_8w"
	ColDOBDistinctEmails4w    = "date_of_birth_distinct_emails_4w"
	ColEmploymentStatus       = "employment_status"
	ColEmailIsFree            = "email_is_free"
	ColHousingStatus          = "housing_status"
	ColPhoneHomeValid         = "phone_home_valid"
	ColPhoneMobileValid       = "phone_mobile_valid"
	ColBankMonthsCount        = "bank_months_count"
	ColHasOtherCards          = "has_other_cards"
	ColProposedCreditLimit    = "proposed_credit_limit"
	ColForeignRequest         = "foreign_request"
	ColSource                 = "source"
	ColSessionLengthMinutes   = "session_length_in_minutes"
	ColDeviceOS               = "device_os"
	ColKeepAliveSession       = "keep_alive_session"
	ColDeviceDistinctEmails8w = "device_distinct_emails_8w"
	ColPrediction             = "Prediction"
)

// Kind is how an input is collected and typed.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Text
)

// Input is one user supplied field, in form and upload order.
type Input struct {
	Name    string
	Label   string
	Kind    Kind
	Options []string
}

// Inputs lists every field collected from the applicant. Name and email
// only feed the similarity score.
var Inputs = []Input{
	{Name: ColIncome, Label: "Income ($)", Kind: Numeric},
	{Name: ColName, Label: "Name", Kind: Text},
	{Name: ColEmail, Label: "Email", Kind: Text},
	{Name: ColPrevAddressMonths, Label: "Number of months in previous address (-1 if N/A)", Kind: Numeric},
	{Name: ColCurrentAddressMonths, Label: "Number of months in current address", Kind: Numeric},
	{Name: ColCustomerAge, Label: "Age", Kind: Numeric},
	{Name: ColDaysSinceRequest, Label: "Number of days since application was sent", Kind: Numeric},
	{Name: ColIntendedBalcon, Label: "Initial transferred amount for application", Kind: Numeric},
	{Name: ColZipCount4w, Label: "Number of applicants with same zip code in last 4 weeks", Kind: Numeric},
	{Name: ColVelocity6h, Label: "Average number of applications per hour in last 6 hours", Kind: Numeric},
	{Name: ColVelocity24h, Label: "Average number of applicants per hour in last 24 hours", Kind: Numeric},
	{Name: ColBankBranchCount8w, Label: "Total number of applications received by bank branch in last 8 weeks", Kind: Numeric},
	{Name: ColDOBDistinctEmails4w, Label: "Number of emails for applicants with same date of birth in last 4 weeks", Kind: Numeric},
	{Name: ColEmploymentStatus, Label: "Employment status (CA for employed / CB for unemployed / Other)", Kind: Categorical},
	{Name: ColEmailIsFree, Label: "Is email free? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColHousingStatus, Label: "Housing status (BC for has residence / BB for not / Other)", Kind: Categorical},
	{Name: ColPhoneHomeValid, Label: "Is home phone valid? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColPhoneMobileValid, Label: "Is mobile phone valid? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColBankMonthsCount, Label: "How old is previous account? (-1 if N/A)", Kind: Numeric},
	{Name: ColHasOtherCards, Label: "Does applicant have other cards in the same banking company? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColProposedCreditLimit, Label: "Applicant's proposed credit limit", Kind: Numeric},
	{Name: ColForeignRequest, Label: "Is request's origin different from bank's country? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColSource, Label: "Source of application", Kind: Categorical, Options: []string{"INTERNET", "TELEAPP"}},
	{Name: ColSessionLengthMinutes, Label: "Length of user session in banking website (minutes)", Kind: Numeric},
	{Name: ColDeviceOS, Label: "Device OS", Kind: Categorical, Options: []string{"windows", "linux", "macintosh", "other"}},
	{Name: ColKeepAliveSession, Label: "Did user choose to keep session alive on logout? 1 for yes / 0 for no", Kind: Numeric},
	{Name: ColDeviceDistinctEmails8w, Label: "Number of distinct emails used in banking website from the same device in last 8 weeks", Kind: Numeric},
}

// Columns is the model record layout.
var Columns = []string{
	ColIncome,
	ColNameEmailSimilarity,
	ColPrevAddressMonths,
	ColCurrentAddressMonths,
	ColCustomerAge,
	ColDaysSinceRequest,
	ColIntendedBalcon,
	ColZipCount4w,
	ColVelocity6h,
	ColVelocity24h,
	ColBankBranchCount8w,
	ColDOBDistinctEmails4w,
	ColEmploymentStatus,
	ColEmailIsFree,
	ColHousingStatus,
	ColPhoneHomeValid,
	ColPhoneMobileValid,
	ColBankMonthsCount,
	ColHasOtherCards,
	ColProposedCreditLimit,
	ColForeignRequest,
	ColSource,
	ColSessionLengthMinutes,
	ColDeviceOS,
	ColKeepAliveSession,
	ColDeviceDistinctEmails8w,
}

var (
	categorical = map[string]bool{
		ColEmploymentStatus: true,
		ColHousingStatus:    true,
		ColSource:           true,
		ColDeviceOS:         true,
	}

	known = func() map[string]bool {
		m := make(map[string]bool, len(Columns))
		for _, c := range Columns {
			m[c] = true
		}
		return m
	}()
)

// RequiredColumns returns the columns an uploaded table must carry.
func RequiredColumns() []string {
	cols := make([]string, len(Inputs))
	for i, in := range Inputs {
		cols[i] = in.Name
	}
	return cols
}

// IsCategorical reports whether the model column holds category strings.
func IsCategorical(col string) bool {
	return categorical[col]
}

// IsColumn reports whether col is part of the model record.
func IsColumn(col string) bool {
	return known[col]
}
