package model

// TransportType は移動手段の種類
type TransportType string

const (
	TransportBus   TransportType = "Bus"
	TransportTrain TransportType = "Train"
	TransportTaxi  TransportType = "Taxi"
	TransportWalk  TransportType = "Walk"
)

// BookingType は予約方法の種類
type BookingType string

const (
	BookingWeb          BookingType = "Web"
	BookingPhone        BookingType = "Phone"
	BookingEmail        BookingType = "Email"
	BookingOnSite       BookingType = "OnSite"
	BookingNotAvailable BookingType = "NotAvailable"
)

// GeoPoint 緯度経度
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BookingInfo は各ステップの予約情報
type BookingInfo struct {
	Type     BookingType `json:"type"`
	Details  string      `json:"details"`
	Notes    string      `json:"notes,omitempty"`
	FareInfo string      `json:"fareInfo,omitempty"` // Bus/Trainの券種情報
}

// IntermediateStop は途中停車地
type IntermediateStop struct {
	Name          string `json:"name"`
	ArrivalTime   string `json:"arrivalTime"`
	DepartureTime string `json:"departureTime,omitempty"`
}

// Step はルートを構成する1区間
type Step struct {
	TransportType          TransportType      `json:"transportType"`
	Origin                 string             `json:"origin"`
	Destination            string             `json:"destination"`
	DepartureTime          string             `json:"departureTime"` // "HH:MM" ゼロ埋め
	ArrivalTime            string             `json:"arrivalTime"`   // "HH:MM" ゼロ埋め
	Duration               string             `json:"duration"`
	Company                string             `json:"company,omitempty"`
	Line                   string             `json:"line,omitempty"`
	Price                  float64            `json:"price"`
	BookingInfo            BookingInfo        `json:"bookingInfo"`
	OriginCoords           *GeoPoint          `json:"originCoords,omitempty"`
	DestinationCoords      *GeoPoint          `json:"destinationCoords,omitempty"`
	EstimatedTravelTime    string             `json:"estimatedTravelTime,omitempty"`
	ApproximateWaitingTime string             `json:"approximateWaitingTime,omitempty"`
	IntermediateStops      []IntermediateStop `json:"intermediateStops,omitempty"`
}

// Accommodation は宿泊施設の提案
type Accommodation struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	ContactDetails string `json:"contactDetails"`
	Notes          string `json:"notes,omitempty"`
}

// Route はAIが返す1つの移動プラン。受信後は変更しない
type Route struct {
	Summary                  string          `json:"summary"`
	TotalDuration            string          `json:"totalDuration"` // 例: "2h 15m"
	TotalPrice               float64         `json:"totalPrice"`
	Steps                    []Step          `json:"steps"`
	Notes                    string          `json:"notes,omitempty"`
	AccommodationSuggestions []Accommodation `json:"accommodationSuggestions,omitempty"`
}

// FirstStep は最初のステップを返す（ステップがない場合はnil）
func (r *Route) FirstStep() *Step {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[0]
}

// LastStep は最後のステップを返す（ステップがない場合はnil）
func (r *Route) LastStep() *Step {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[len(r.Steps)-1]
}

// HasTransport はいずれかのステップが指定の移動手段を使うか判定する
func (r *Route) HasTransport(t TransportType) bool {
	for _, step := range r.Steps {
		if step.TransportType == t {
			return true
		}
	}
	return false
}

// TripPlan は /api/planTrip のレスポンス
type TripPlan struct {
	Routes []Route `json:"routes"`
}

// TripIdea は日帰り旅行のアイデア
type TripIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// TripIdeasResponse は /api/getTripIdeas のレスポンス
type TripIdeasResponse struct {
	Ideas []TripIdea `json:"ideas"`
}
