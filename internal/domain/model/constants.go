package model

import "errors"

// CurrentLocationLabel は現在地を出発地として使う場合のマーカー
const CurrentLocationLabel = "Mi ubicación actual"

// ストレージキー
const (
	RecentSearchesKey = "teruelTripPlanner_recentSearches"
	SubscriptionsKey  = "teruelTripPlanner_subscriptions"
)

// 保存件数の上限
const (
	MaxRecentSearches = 5
	MaxSubscriptions  = 10
)

// ユーザー向けメッセージ（スペイン語UI）
const (
	MsgConfirmLocation          = "Por favor, usa el botón de geolocalización de nuevo para confirmar tu ubicación antes de realizar esta búsqueda."
	MsgMissingOriginDestination = "Por favor, introduce un origen y un destino."
	MsgSearchTimeout            = "La búsqueda está tardando demasiado. Por favor, inténtalo de nuevo más tarde."
	MsgServerTimeout            = "La búsqueda está tardando demasiado. El servidor no pudo responder a tiempo."
	MsgPlanFailed               = "No se pudo obtener la planificación del viaje. Por favor, inténtalo de nuevo."
	MsgIdeasFailed              = "No se pudieron obtener las sugerencias."

	MsgGeolocationUnsupported = "La geolocalización no está soportada por tu navegador."
	MsgGeolocationDenied      = "Permiso de ubicación denegado."
	MsgGeolocationUnavailable = "No se pudo obtener tu ubicación."
	MsgGeolocationTimeout     = "La solicitud de ubicación ha caducado."
)

// APIエラーメッセージ（サーバー側）
const (
	APIMsgMethodNotAllowed    = "Method Not Allowed"
	APIMsgMissingFields       = "Missing required fields"
	APIMsgMissingSubscription = "Missing subscription details"
	APIMsgPlanTimeout         = "La petición ha tardado demasiado en responder."
	APIMsgPlanFailed          = "Failed to generate trip plan from AI."
	APIMsgIdeasTimeout        = "La petición de sugerencias ha tardado demasiado."
	APIMsgIdeasFailed         = "No se pudieron generar las ideas de viaje."
	APIMsgUpdateFailed        = "Failed to generate update from AI."
	APIMsgInternalServerError = "Internal server error"
	NotAvailable              = "N/A"
)

var (
	// ErrTimeout はAI呼び出しまたは通信のタイムアウト
	ErrTimeout = errors.New("timed out")
	// ErrInvalidResponse はAIのレスポンスに期待する配列が含まれていない場合のエラー
	ErrInvalidResponse = errors.New("respuesta de la API con formato incorrecto")
	// ErrNotFound はデータが見つからない場合のエラー
	ErrNotFound = errors.New("not found")

	// 現在地の取得に関するエラー
	ErrLocationUnsupported = errors.New("geolocation unsupported")
	ErrLocationDenied      = errors.New("geolocation permission denied")
	ErrLocationUnavailable = errors.New("geolocation unavailable")
)

// UserMessager はユーザーにそのまま表示できるメッセージを持つエラー
type UserMessager interface {
	UserMessage() string
}

// TransportNameMap は移動手段からスペイン語表示名へのマッピング
var TransportNameMap = map[TransportType]string{
	TransportBus:   "Autobús",
	TransportTrain: "Tren",
	TransportTaxi:  "Taxi",
	TransportWalk:  "A pie",
}

// GetTransportDisplayName は移動手段の表示名を取得する
func GetTransportDisplayName(t TransportType) string {
	if name, ok := TransportNameMap[t]; ok {
		return name
	}
	return string(t) // デフォルトはそのまま返す
}
