package entities

// Provider represents one health-service location as stored in the document store.
// Attribute groups are pointers and their booleans are *bool: a missing value is unknown,
// which is never the same as false.
type Provider struct {
	ID           string    `json:"_id" bson:"_id,omitempty"`
	Name         string    `json:"Name" bson:"Name,omitempty"`
	Category     string    `json:"Category" bson:"Category,omitempty"`
	Address      string    `json:"Address,omitempty" bson:"Address,omitempty"`
	Phone        string    `json:"Phone,omitempty" bson:"Phone,omitempty"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	Website      string    `json:"Website,omitempty" bson:"Website,omitempty"`
	Rating       string    `json:"Rating,omitempty" bson:"Rating,omitempty"`
	TotalReviews string    `json:"Total Reviews,omitempty" bson:"Total Reviews,omitempty"`
	Location     *GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	Processed    bool      `json:"jina_scraped" bson:"jina_scraped"`

	ServicesOffered           *ServicesOffered           `json:"services_offered,omitempty" bson:"services_offered,omitempty"`
	InsuranceAccepted         *InsuranceAccepted         `json:"insurance_accepted,omitempty" bson:"insurance_accepted,omitempty"`
	FinancialAssistance       *FinancialAssistance       `json:"financial_assistance,omitempty" bson:"financial_assistance,omitempty"`
	DocumentationRequirements *DocumentationRequirements `json:"documentation_requirements,omitempty" bson:"documentation_requirements,omitempty"`
	TelehealthInfo            *TelehealthInfo            `json:"telehealth_info,omitempty" bson:"telehealth_info,omitempty"`
	AccessibilityInfo         *AccessibilityInfo         `json:"accessibility_info,omitempty" bson:"accessibility_info,omitempty"`
	EligibilityRequirements   *EligibilityRequirements   `json:"eligibility_requirements,omitempty" bson:"eligibility_requirements,omitempty"`
	SpecialPrograms           *SpecialPrograms           `json:"special_programs,omitempty" bson:"special_programs,omitempty"`
	HealthConditionsFocus     *HealthConditionsFocus     `json:"health_conditions_focus,omitempty" bson:"health_conditions_focus,omitempty"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Valid reports whether the point has two coordinates within range.
func (p *GeoPoint) Valid() bool {
	if p == nil || len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// Lat returns the latitude. Callers must check Valid first.
func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Lng returns the longitude. Callers must check Valid first.
func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }

// Searchable reports whether the record may appear in search results.
func (p *Provider) Searchable() bool {
	return p != nil && p.Processed && p.Location.Valid()
}

// ServiceEntry is one service a provider lists
type ServiceEntry struct {
	Name         string `json:"name" bson:"name,omitempty"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
	IsFree       *bool  `json:"is_free,omitempty" bson:"is_free,omitempty"`
	IsDiscounted *bool  `json:"is_discounted,omitempty" bson:"is_discounted,omitempty"`
	Limitations  string `json:"limitations,omitempty" bson:"limitations,omitempty"`
}

// FreeOrDiscounted reports whether the entry is explicitly free or discounted.
func (s ServiceEntry) FreeOrDiscounted() bool {
	return IsTrue(s.IsFree) || IsTrue(s.IsDiscounted)
}

// ServicesOffered groups the three service lists
type ServicesOffered struct {
	GeneralServices     []ServiceEntry `json:"general_services,omitempty" bson:"general_services,omitempty"`
	SpecializedServices []ServiceEntry `json:"specialized_services,omitempty" bson:"specialized_services,omitempty"`
	DiagnosticServices  []ServiceEntry `json:"diagnostic_services,omitempty" bson:"diagnostic_services,omitempty"`
}

// InsuranceAccepted describes payment sources a provider takes
type InsuranceAccepted struct {
	Medicaid       *bool    `json:"medicaid,omitempty" bson:"medicaid,omitempty"`
	Medicare       *bool    `json:"medicare,omitempty" bson:"medicare,omitempty"`
	SelfPayOptions *bool    `json:"self_pay_options,omitempty" bson:"self_pay_options,omitempty"`
	PaymentPlans   *bool    `json:"payment_plans,omitempty" bson:"payment_plans,omitempty"`
	MajorProviders []string `json:"major_providers,omitempty" bson:"major_providers,omitempty"`
	Notes          string   `json:"notes,omitempty" bson:"notes,omitempty"`
}

// FinancialAssistance describes sliding-scale and uninsured options
type FinancialAssistance struct {
	SlidingScaleAvailable *bool  `json:"sliding_scale_available,omitempty" bson:"sliding_scale_available,omitempty"`
	SlidingScaleDetails   string `json:"sliding_scale_details,omitempty" bson:"sliding_scale_details,omitempty"`
	AcceptsUninsured      *bool  `json:"accepts_uninsured,omitempty" bson:"accepts_uninsured,omitempty"`
}

// DocumentationRequirements describes what a patient must bring
type DocumentationRequirements struct {
	SSNRequired       *bool `json:"ssn_required,omitempty" bson:"ssn_required,omitempty"`
	IDRequired        *bool `json:"id_required,omitempty" bson:"id_required,omitempty"`
	AcceptsForeignIDs *bool `json:"accepts_foreign_ids,omitempty" bson:"accepts_foreign_ids,omitempty"`
}

// TelehealthInfo describes virtual care
type TelehealthInfo struct {
	TelehealthAvailable      *bool    `json:"telehealth_available,omitempty" bson:"telehealth_available,omitempty"`
	ServicesOfferedVirtually []string `json:"services_offered_virtually,omitempty" bson:"services_offered_virtually,omitempty"`
}

// AccessibilityInfo describes scheduling flexibility
type AccessibilityInfo struct {
	WalkInsAccepted     *bool `json:"walk_ins_accepted,omitempty" bson:"walk_ins_accepted,omitempty"`
	SameDayAppointments *bool `json:"same_day_appointments,omitempty" bson:"same_day_appointments,omitempty"`
	AfterHoursCare      *bool `json:"after_hours_care,omitempty" bson:"after_hours_care,omitempty"`
}

// EligibilityRequirements describes who can be seen
type EligibilityRequirements struct {
	NewPatientsAccepted   *bool    `json:"new_patients_accepted,omitempty" bson:"new_patients_accepted,omitempty"`
	WalkInsAccepted       *bool    `json:"walk_ins_accepted,omitempty" bson:"walk_ins_accepted,omitempty"`
	AppointmentProcess    string   `json:"appointment_process,omitempty" bson:"appointment_process,omitempty"`
	AgeGroups             []string `json:"age_groups,omitempty" bson:"age_groups,omitempty"`
	RequiredDocumentation []string `json:"required_documentation,omitempty" bson:"required_documentation,omitempty"`
}

// SpecialPrograms lists enrollment and navigation help
type SpecialPrograms struct {
	MedicaidEnrollmentAssistance *bool `json:"medicaid_enrollment_assistance,omitempty" bson:"medicaid_enrollment_assistance,omitempty"`
	CHIPEnrollmentAssistance     *bool `json:"chip_enrollment_assistance,omitempty" bson:"chip_enrollment_assistance,omitempty"`
	PatientNavigators            *bool `json:"patient_navigators,omitempty" bson:"patient_navigators,omitempty"`
}

// HealthConditionsFocus lists conditions a provider treats
type HealthConditionsFocus struct {
	ConditionsTreated []string `json:"conditions_treated,omitempty" bson:"conditions_treated,omitempty"`
}

// IsTrue reports whether b is set and true.
func IsTrue(b *bool) bool { return b != nil && *b }

// IsFalse reports whether b is set and false. A nil value is unknown, not false.
func IsFalse(b *bool) bool { return b != nil && !*b }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
