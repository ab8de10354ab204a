package ai

import (
	"TeruelTrip-App/internal/domain/model"
	"fmt"
	"strings"
)

// 生成温度
const (
	planTripTemperature   = 0.2
	tripIdeasTemperature  = 0.8
	tripUpdateTemperature = 0.9
)

const planTripSystemInstruction = "Eres un experto planificador de viajes especializado en el transporte público de la provincia de Teruel, España. Tu conocimiento abarca horarios de autobuses (incluyendo servicios a demanda y días específicos de operación como laborables, sábados o festivos), líneas de tren, y contactos de taxis locales en pueblos pequeños. Eres capaz de generar rutas lógicas, encontrar coordenadas precisas y proporcionar información práctica y fiable. Siempre devuelves la información en el formato JSON especificado."

const tripIdeasSystemInstruction = "Eres un guía turístico creativo y experto en la provincia de Teruel. Tu misión es generar ideas de viaje inspiradoras y bien estructuradas en formato JSON."

const tripUpdateSystemInstruction = "Eres un sistema automático de información de tráfico y transporte. Generas alertas concisas y realistas en formato JSON."

var geoPointSchema = objectSchema("Coordenadas geográficas (latitud, longitud).", map[string]*Schema{
	"lat": numberSchema("Latitud"),
	"lng": numberSchema("Longitud"),
}, "lat", "lng")

var accommodationSchema = objectSchema("Sugerencia de alojamiento.", map[string]*Schema{
	"name":           stringSchema("Nombre del alojamiento."),
	"type":           stringSchema("Tipo de alojamiento (ej: 'Hotel', 'Casa Rural', 'Hostal')."),
	"contactDetails": stringSchema("Detalles de contacto (teléfono, email o web)."),
	"notes":          stringSchema("Notas adicionales sobre el alojamiento."),
}, "name", "type", "contactDetails")

var intermediateStopSchema = objectSchema("Una parada intermedia en un trayecto.", map[string]*Schema{
	"name":          stringSchema("Nombre de la parada."),
	"arrivalTime":   stringSchema("Hora de llegada a la parada."),
	"departureTime": stringSchema("Hora de salida de la parada (si es diferente a la de llegada)."),
}, "name", "arrivalTime")

var bookingInfoSchema = objectSchema("", map[string]*Schema{
	"type":     stringSchema("Método de reserva.", "Web", "Phone", "Email", "OnSite", "NotAvailable"),
	"details":  stringSchema("URL, número de teléfono, email o 'Comprar en taquilla'. Para taxis, el número local."),
	"notes":    stringSchema("Notas sobre la reserva, ej: 'Se recomienda reservar online para mejor precio'."),
	"fareInfo": stringSchema("Si el transporte es Bus o Tren, describe los tipos de billetes disponibles (ej: 'Billete sencillo', 'Ida y vuelta', 'Tarjeta Lazo'). Es opcional."),
}, "type", "details")

var stepSchema = objectSchema("", map[string]*Schema{
	"transportType":          stringSchema("Tipo de transporte.", "Bus", "Train", "Taxi", "Walk"),
	"origin":                 stringSchema("Lugar de inicio del paso."),
	"destination":            stringSchema("Lugar de fin del paso."),
	"departureTime":          stringSchema("Hora de salida, ej: '09:30'"),
	"arrivalTime":            stringSchema("Hora de llegada, ej: '10:45'"),
	"duration":               stringSchema("Duración del paso, ej: '1h 15m'"),
	"company":                stringSchema("Nombre de la compañía de transporte (ej: 'Tezasa', 'Renfe', 'Taxi Local')."),
	"line":                   stringSchema("Número o nombre de la línea si aplica."),
	"price":                  numberSchema("Precio estimado del paso en Euros. Para taxis, un rango estimado."),
	"bookingInfo":            bookingInfoSchema,
	"originCoords":           geoPointSchema,
	"destinationCoords":      geoPointSchema,
	"estimatedTravelTime":    stringSchema("Tiempo estimado de viaje puro, sin contar paradas. Ej: '1h 5m'"),
	"approximateWaitingTime": stringSchema("Tiempo de espera aproximado antes de este paso. Para el primer paso es '0m'. Para los siguientes, es el tiempo entre la llegada del paso anterior y la salida de este. Ej: '25m'"),
	"intermediateStops":      arraySchema("Lista de paradas intermedias importantes durante este paso.", intermediateStopSchema),
}, "transportType", "origin", "destination", "departureTime", "arrivalTime", "duration", "price",
	"bookingInfo", "originCoords", "destinationCoords", "estimatedTravelTime", "approximateWaitingTime")

// TripPlanSchema は /api/planTrip のレスポンススキーマ
var TripPlanSchema = objectSchema("", map[string]*Schema{
	"routes": arraySchema("Lista de posibles rutas para el viaje. Ofrece al menos 2 o 3 si es posible.",
		objectSchema("", map[string]*Schema{
			"summary":                  stringSchema("Resumen corto de la ruta, ej: 'Bus a Albarracín y Taxi a Gea' o 'Taxis en Albarracín'"),
			"totalDuration":            stringSchema("Duración total del viaje, ej: '2h 15m'"),
			"totalPrice":               numberSchema("Coste total estimado del viaje en Euros."),
			"notes":                    stringSchema("Notas adicionales importantes sobre la ruta, como 'Esta ruta solo opera en días laborables' o 'El taxi debe reservarse con antelación'."),
			"steps":                    arraySchema("Pasos individuales que componen la ruta.", stepSchema),
			"accommodationSuggestions": arraySchema("Sugerencias de alojamiento si no hay ruta de vuelta el mismo día y el usuario lo solicitó.", accommodationSchema),
		}, "summary", "totalDuration", "totalPrice", "steps")),
}, "routes")

// TripIdeasSchema は /api/getTripIdeas のレスポンススキーマ
var TripIdeasSchema = objectSchema("", map[string]*Schema{
	"ideas": arraySchema("Lista de 3 ideas de excursiones de un día por la provincia de Teruel.",
		objectSchema("", map[string]*Schema{
			"title":       stringSchema("Un nombre atractivo y corto para la excursión."),
			"description": stringSchema("Una descripción concisa (2-3 líneas) que resalte lo especial de la ruta."),
			"origin":      stringSchema("La localidad de origen sugerida, normalmente 'Teruel'."),
			"destination": stringSchema("La localidad principal de destino para la excursión."),
		}, "title", "description", "origin", "destination")),
}, "ideas")

// TripUpdateSchema は /api/checkTripUpdates のレスポンススキーマ
var TripUpdateSchema = objectSchema("", map[string]*Schema{
	"message": stringSchema("A short, plausible status update for the trip. Can be a delay, cancellation, schedule change, or a confirmation that everything is on time."),
}, "message")

// buildPlanTripPrompt は検索条件から旅程生成用のプロンプトを構築する
func buildPlanTripPrompt(req *model.SearchRequest) string {
	originInstruction := fmt.Sprintf("desde %q", req.Origin)
	if req.OriginCoords != nil && req.IsCurrentLocation() {
		originInstruction = fmt.Sprintf(
			"desde la ubicación geográfica con coordenadas latitud %v y longitud %v. Primero, debes identificar la localidad o punto de interés conocido más cercano DENTRO DE LA PROVINCIAS DE TERUEL a estas coordenadas y usarlo como punto de partida real para el viaje. Indica en el resumen de la ruta desde qué localidad estás empezando, ej: \"Desde cerca de Albarracín a...\"",
			req.OriginCoords.Lat, req.OriginCoords.Lng,
		)
	}

	if req.WantsTaxiContacts() {
		return buildTaxiContactsPrompt(req, originInstruction)
	}

	var instructions []string
	if req.IsOnDemand {
		instructions = append(instructions, "El usuario ha solicitado priorizar el transporte a demanda (autobuses con reserva telefónica). Incluye estas opciones si son viables.")
	}
	if req.IsWheelchairAccessible {
		instructions = append(instructions, "Si se necesita un taxi como parte de una ruta, debe ser accesible para silla de ruedas.")
	} else {
		instructions = append(instructions, "Si un tramo no puede cubrirse con bus o tren, sugiere un taxi local, proporcionando el número de teléfono si es posible y un coste estimado.")
	}
	if req.FindAccommodation {
		instructions = append(instructions, fmt.Sprintf(
			"Si no existe una combinación de transportes razonable para volver desde %s a %s en el mismo día, busca también sugerencias de alojamiento en %s y planifica la ruta de vuelta para el día siguiente.",
			req.Destination, req.Origin, req.Destination,
		))
	}

	return fmt.Sprintf(`Planifica un viaje en transporte público %s hasta %q dentro de la provincia de Teruel, España. El viaje es para %d pasajero(s) y la fecha del viaje es %s.

%s

Es MUY IMPORTANTE que consideres el día de la semana (laborable, sábado, domingo/festivo) que corresponde a la fecha '%s', ya que los horarios de los autobuses pueden variar drásticamente. Proporciona únicamente los horarios válidos para esa fecha específica.

Es crucial que **no** asumas que todos los viajes deben pasar por Teruel ciudad a menos que sea el origen, el destino o un transbordo absolutamente necesario. Prioriza siempre las rutas directas o más lógicas entre las localidades, incluso si utilizan líneas de autobús comarcales que no conectan con la capital. Por ejemplo, un viaje entre Villarluengo y Cantavieja debería usar el bus local que las conecta directamente, sin pasar por Teruel.

Para cada paso del viaje, DEBES proporcionar las coordenadas geográficas (latitud y longitud) tanto para el origen ('originCoords') como para el destino ('destinationCoords'). Esta información es fundamental.

Para los trayectos en bus y tren, si hay paradas intermedias relevantes, lista hasta 5 de las más importantes en 'intermediateStops', cada una con su nombre, hora de llegada y hora de salida si es diferente.

**IMPORTANTE: INCLUYE EL TREN.** Además de autobuses y taxis, considera activamente la línea de tren regional que cruza la provincia (línea Zaragoza-Teruel-Valencia). Esta es una opción de transporte clave entre localidades mayores como Teruel ciudad, Cella, y otras paradas relevantes. Incluye el tren como parte de las rutas siempre que sea una alternativa lógica. La compañía es Renfe.

Incluye horarios realistas, precios estimados y, fundamentalmente, cómo comprar o reservar los billetes.
Si no hay reserva online, proporciona teléfonos o emails de contacto.

Para los pasos de autobús y tren donde la reserva es online o en taquilla, intenta proporcionar información sobre los tipos de billetes disponibles en el campo 'fareInfo' (ej: 'Billete sencillo', 'Ida y vuelta con descuento', 'Se puede usar Tarjeta Lazo').

Sé muy específico y práctico.
Si no hay rutas directas, crea rutas con transbordos. Incluye si es necesario caminar un poco entre paradas.
La información debe ser útil para un turista que no conoce la zona.

Para cada paso del viaje, además de la duración total ('duration'), calcula y proporciona:
1. 'estimatedTravelTime': El tiempo que el vehículo está en movimiento, excluyendo paradas intermedias.
2. 'approximateWaitingTime': El tiempo de espera en la parada/estación antes de que comience este paso. Para el primer paso, este valor debe ser "0m". Para los demás, es la diferencia entre la hora de llegada del paso anterior y la hora de salida de este paso.`,
		originInstruction, req.Destination, req.Passengers, req.Date,
		strings.Join(instructions, "\n"),
		req.Date,
	)
}

func buildTaxiContactsPrompt(req *model.SearchRequest, originInstruction string) string {
	var extra []string
	if req.IsWheelchairAccessible {
		extra = append(extra, "El taxi DEBE ser accesible para silla de ruedas.")
	}
	if req.IsTaxiOnDemand {
		extra = append(extra, "El usuario busca específicamente taxis que funcionen bajo demanda, es decir, que se reservan por teléfono. Prioriza este tipo de servicio.")
	}

	return fmt.Sprintf(`Busca información de contacto de todos los servicios de taxi que operen en la localidad %s, en la provincia de Teruel, España.
El usuario busca un taxi para %d pasajero(s).
%s
Tu objetivo es proporcionar una lista útil de contactos para alguien que necesita un taxi en esa zona.

- Proporciona el nombre del taxista o de la compañía si lo conoces.
- El número de teléfono es la información más importante.
- Si hay varios taxistas, crea un paso de tipo "Taxi" para cada uno de ellos en la misma ruta.
- Para cada taxista, proporciona las coordenadas de la localidad en 'originCoords' y 'destinationCoords'.
- Para cada paso, establece 'estimatedTravelTime' igual a 'duration' y 'approximateWaitingTime' en "0m".
- La respuesta DEBE seguir el esquema JSON proporcionado. Crea una única ruta con uno o más pasos.
- Para cada paso (cada taxista), el origen y destino puede ser el nombre de la localidad. El precio puede ser 0 ya que es solo informativo. Lo más importante es la información de contacto en 'bookingInfo'.`,
		originInstruction, req.Passengers, strings.Join(extra, "\n"),
	)
}

const tripIdeasPrompt = `Actúa como un guía turístico experto en la provincia de Teruel, España. Tu objetivo es inspirar a un viajero que no sabe qué visitar.
Sugiere exactamente 3 ideas de excursiones de un día.

Para cada idea, proporciona:
1.  Un título atractivo y corto (ej: "Ruta de los Castillos y Murallas").
2.  Una descripción breve (2-3 frases) que capture la esencia del lugar y lo que lo hace especial.
3.  Una localidad de origen, que siempre debe ser "Teruel".
4.  Una localidad de destino principal para la excursión (ej: "Albarracín").

Asegúrate de que los destinos sean variados y representen diferentes comarcas de la provincia (ej: Albarracín, Matarraña, Gúdar-Javalambre).
La respuesta DEBE seguir el esquema JSON proporcionado.`

// buildTripUpdatePrompt は購読中ルートの運行情報生成用のプロンプトを構築する
func buildTripUpdatePrompt(sub *model.Subscription) string {
	return fmt.Sprintf(`Actúa como un sistema de alertas de transporte público para la provincia de Teruel.
He recibido una solicitud para comprobar el estado de un viaje planificado:
- Ruta: %s
- Origen: %s
- Destino: %s
- Fecha: %s

Genera una actualización de estado CONCISA y REALISTA para este viaje.
Tienes tres opciones, elige una de forma aleatoria pero con sentido:
1. (50%% de probabilidad) No hay incidencias: "Todo en orden. El servicio opera según lo previsto." o similar.
2. (40%% de probabilidad) Un retraso menor: "Retraso de 15 minutos en el bus de las 10:30 debido a tráfico." o algo específico y creíble.
3. (10%% de probabilidad) Una cancelación o cambio importante: "AVISO: La línea de bus entre %s y %s ha sido cancelada por obras. Se recomienda usar taxi."

La respuesta debe ser creíble para un usuario real. Usa un tono informativo.
La respuesta DEBE seguir el esquema JSON proporcionado.`,
		sub.Summary, sub.Origin, sub.Destination, sub.Date, sub.Origin, sub.Destination,
	)
}
