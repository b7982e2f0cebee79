package transport

// CalculateRequest accepts either a principal or a vehicle price with an
// optional down payment. Omitted rate and term fall back to configured defaults.
type CalculateRequest struct {
	Principal         *float64 `json:"principal" validate:"omitempty,gt=0"`
	VehiclePrice      *float64 `json:"vehiclePrice" validate:"omitempty,gt=0"`
	DownPayment       float64  `json:"downPayment" validate:"gte=0"`
	AnnualRatePercent *float64 `json:"annualRatePercent" validate:"omitempty,gte=0,lte=100"`
	TermMonths        *int     `json:"termMonths" validate:"omitempty,gte=1,lte=360"`
	IncludeSchedule   bool     `json:"includeSchedule"`
}

// ListingQuoteQuery is the query string of GET /listings/:id/loan-quote.
type ListingQuoteQuery struct {
	DownPayment       float64  `form:"downPayment" validate:"gte=0"`
	AnnualRatePercent *float64 `form:"annualRatePercent" validate:"omitempty,gte=0,lte=100"`
	TermMonths        *int     `form:"termMonths" validate:"omitempty,gte=1,lte=360"`
	IncludeSchedule   bool     `form:"includeSchedule"`
}

type InstallmentResponse struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

type QuoteResponse struct {
	Principal         float64               `json:"principal"`
	AnnualRatePercent float64               `json:"annualRatePercent"`
	TermMonths        int                   `json:"termMonths"`
	MonthlyPayment    float64               `json:"monthlyPayment"`
	TotalPayment      float64               `json:"totalPayment"`
	TotalInterest     float64               `json:"totalInterest"`
	Schedule          []InstallmentResponse `json:"schedule,omitempty"`
}
