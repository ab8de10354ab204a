package main

import (
	"TeruelTrip-App/internal/application"
	"TeruelTrip-App/internal/config"
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"TeruelTrip-App/internal/infrastructure/api"
	"TeruelTrip-App/internal/infrastructure/location"
	"TeruelTrip-App/internal/lifecycle"
	repoImpl "TeruelTrip-App/internal/repository"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

const clientIDKey = "teruelTripPlanner_clientId"

const usage = `uso: planner <comando> [opciones]

comandos:
  search   planifica un viaje
  ideas    sugiere excursiones de un día
  recent   muestra o repite las búsquedas recientes
  subs     muestra o elimina las alertas de ruta
  check    comprueba ahora todas las alertas
  watch    comprueba las alertas periódicamente hasta Ctrl-C
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := repoImpl.NewKeyValueStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ ストレージの初期化に失敗: %v", err)
	}
	defer store.Close()

	clientID, err := resolveClientID(ctx, store, cfg.Planner.ClientID)
	if err != nil {
		log.Fatalf("❌ クライアントIDの取得に失敗: %v", err)
	}

	app := &cli{
		cfg:    cfg,
		recent: repoImpl.NewKVRecentSearchRepository(store, clientID),
		subs:   repoImpl.NewKVSubscriptionRepository(store, clientID),
		client: api.NewTripPlannerClient(cfg.Planner.APIURL, nil),
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "search":
		err = app.search(ctx, args)
	case "ideas":
		err = app.ideas(ctx, args)
	case "recent":
		err = app.recentSearches(ctx, args)
	case "subs":
		err = app.subscriptions(ctx, args)
	case "check":
		err = app.check(ctx)
	case "watch":
		err = app.watch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveClientID は保存されたクライアントIDを返す。なければ生成して保存する
func resolveClientID(ctx context.Context, store repository.KeyValueStore, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	id, ok, err := store.Get(ctx, clientIDKey)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := store.Set(ctx, clientIDKey, id); err != nil {
		return "", err
	}
	log.Printf("🆕 クライアントIDを生成: %s", id)
	return id, nil
}

type cli struct {
	cfg    *config.Config
	recent repository.RecentSearchRepository
	subs   repository.SubscriptionRepository
	client *api.TripPlannerClient
}

func (c *cli) newController(locator repository.LocationProvider) *application.TripPlannerController {
	return application.NewTripPlannerController(c.client, c.recent, c.subs, locator,
		application.WithSearchTimeout(c.cfg.Planner.SearchTimeout),
	)
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	from := fs.String("from", "", "origen")
	to := fs.String("to", "", "destino (igual al origen para buscar taxis)")
	date := fs.String("date", "", "fecha YYYY-MM-DD (hoy por defecto)")
	passengers := fs.Int("passengers", 1, "número de pasajeros")
	onDemand := fs.Bool("on-demand", false, "priorizar transporte a demanda")
	wheelchair := fs.Bool("wheelchair", false, "accesible para silla de ruedas")
	taxiOnDemand := fs.Bool("taxi-on-demand", false, "buscar taxis bajo demanda")
	accommodation := fs.Bool("accommodation", false, "buscar alojamiento si no hay vuelta")
	urgent := fs.Bool("urgent", false, "búsqueda urgente")
	here := fs.String("here", "", "usar la ubicación actual \"lat,lng\" como origen")
	sortKey := fs.String("sort", "default", "orden: default, price-asc, price-desc, duration-asc, duration-desc")
	maxPrice := fs.Float64("max-price", 0, "precio máximo")
	transports := fs.String("transport", "", "tipos de transporte obligatorios separados por comas (Bus,Train,Taxi)")
	departAfter := fs.String("depart-after", "", "salida no antes de HH:MM")
	arriveBefore := fs.String("arrive-before", "", "llegada no después de HH:MM")
	subscribe := fs.Int("subscribe", 0, "activar/desactivar la alerta de la ruta N")
	geojsonOut := fs.Bool("geojson", false, "imprimir el mapa de la ruta seleccionada en GeoJSON")
	_ = fs.Parse(args)

	var locator repository.LocationProvider
	if *here != "" {
		point, err := location.ParseLatLng(*here)
		if err != nil {
			return err
		}
		locator = location.NewStaticProvider(point)
	}

	controller := c.newController(locator)
	form := controller.Form()
	if locator != nil {
		if _, err := controller.UseCurrentLocation(ctx); err != nil {
			return err
		}
		form = controller.Form()
	} else {
		form.Origin = *from
	}
	form.Destination = *to
	if *date != "" {
		form.Date = *date
	}
	form.Passengers = *passengers
	form.IsOnDemand = *onDemand
	form.IsWheelchairAccessible = *wheelchair
	form.IsTaxiOnDemand = *taxiOnDemand
	form.FindAccommodation = *accommodation
	form.IsUrgent = *urgent

	if err := runUntilDone(controller, func() error { return controller.StartSearch(ctx, form) }, controller.CancelSearch); err != nil {
		return err
	}

	state := controller.State()
	if state.Search.Error != "" {
		return errors.New(state.Search.Error)
	}
	if state.Search.LastReason == lifecycle.ReasonUserCancel && !state.Search.HasResult {
		fmt.Println("Búsqueda cancelada.")
		return nil
	}

	view := controller.Results()
	if view == nil {
		fmt.Println("No se encontraron rutas.")
		return nil
	}
	view.UpdateFilter(func(f *model.FilterState) {
		f.SortKey = model.ParseSortKey(*sortKey)
		if *maxPrice > 0 {
			f.MaxPrice = *maxPrice
		}
		for _, t := range splitComma(*transports) {
			f.ToggleTransport(model.TransportType(t))
		}
		f.DepartureNotBefore = *departAfter
		f.ArrivalNotAfter = *arriveBefore
	})

	printRoutes(view)

	if *subscribe > 0 {
		if !view.SelectIndex(*subscribe - 1) {
			return fmt.Errorf("no existe la ruta %d", *subscribe)
		}
		on, err := controller.ToggleSubscription(ctx, view.Selected())
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("🔔 Alerta activada para \"%s\".\n", view.Selected().Summary)
		} else {
			fmt.Printf("🔕 Alerta desactivada para \"%s\".\n", view.Selected().Summary)
		}
	}

	if *geojsonOut && view.Selected() != nil {
		data, err := view.RouteMap().ToGeoJSON().MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

func (c *cli) ideas(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ideas", flag.ExitOnError)
	plan := fs.Int("plan", 0, "planificar la idea N")
	_ = fs.Parse(args)

	controller := c.newController(nil)
	if err := runUntilDone(controller, func() error { controller.SuggestTrips(ctx); return nil }, func() bool {
		controller.CloseIdeas()
		return true
	}); err != nil {
		return err
	}

	state := controller.State()
	if state.Ideas.Error != "" {
		return errors.New(state.Ideas.Error)
	}
	ideas := controller.Ideas()
	for i, idea := range ideas {
		fmt.Printf("%d. %s (%s → %s)\n   %s\n", i+1, idea.Title, idea.Origin, idea.Destination, idea.Description)
	}

	if *plan <= 0 {
		return nil
	}
	if *plan > len(ideas) {
		return fmt.Errorf("no existe la idea %d", *plan)
	}
	if err := runUntilDone(controller, func() error { return controller.PlanFromIdea(ctx, ideas[*plan-1]) }, controller.CancelSearch); err != nil {
		return err
	}
	return printSearchOutcome(controller)
}

func (c *cli) recentSearches(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	run := fs.Int("run", 0, "repetir la búsqueda N")
	_ = fs.Parse(args)

	recent, err := c.recent.List(ctx)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Println("No hay búsquedas recientes.")
		return nil
	}
	for i, rs := range recent {
		fmt.Printf("%d. %s → %s (%s, %d pasajero/s)\n", i+1, rs.Origin, rs.Destination, rs.Date, rs.Passengers)
	}

	if *run <= 0 {
		return nil
	}
	if *run > len(recent) {
		return fmt.Errorf("no existe la búsqueda %d", *run)
	}
	controller := c.newController(nil)
	if err := runUntilDone(controller, func() error { return controller.SelectRecentSearch(ctx, recent[*run-1]) }, controller.CancelSearch); err != nil {
		return err
	}
	return printSearchOutcome(controller)
}

func (c *cli) subscriptions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("subs", flag.ExitOnError)
	remove := fs.String("remove", "", "eliminar la alerta con este id")
	_ = fs.Parse(args)

	controller := c.newController(nil)
	if *remove != "" {
		if err := controller.Unsubscribe(ctx, *remove); err != nil {
			return err
		}
		fmt.Println("🔕 Alerta eliminada.")
	}

	subs, err := controller.Subscriptions(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("No hay alertas activas.")
		return nil
	}
	for _, s := range subs {
		fmt.Printf("- %s (%s → %s, %s)\n  id: %s\n", s.Summary, s.Origin, s.Destination, s.Date, s.ID)
	}
	return nil
}

func (c *cli) check(ctx context.Context) error {
	watcher, err := application.NewAlertWatcher(c.newController(nil), c.cfg.Planner.AlertSchedule, printUpdate)
	if err != nil {
		return err
	}
	return watcher.CheckAll(ctx)
}

func (c *cli) watch(ctx context.Context) error {
	watcher, err := application.NewAlertWatcher(c.newController(nil), c.cfg.Planner.AlertSchedule, printUpdate)
	if err != nil {
		return err
	}
	if err := watcher.CheckAll(ctx); err != nil {
		log.Printf("⚠️ %v", err)
	}

	watcher.Start()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	watcher.Stop()
	return nil
}

// runUntilDone は操作を開始して完了を待つ。Ctrl-C で cancel を呼ぶ
func runUntilDone(controller *application.TripPlannerController, start func() error, cancel func() bool) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT)
	defer signal.Stop(quit)

	if err := start(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		controller.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-quit:
		cancel()
		<-done
	}
	return nil
}

func printSearchOutcome(controller *application.TripPlannerController) error {
	state := controller.State()
	if state.Search.Error != "" {
		return errors.New(state.Search.Error)
	}
	if view := controller.Results(); view != nil {
		printRoutes(view)
	}
	return nil
}

func printRoutes(view *application.ResultsView) {
	routes := view.Routes()
	if len(routes) == 0 {
		if view.IsFiltered() {
			fmt.Println("Ninguna ruta coincide con los filtros.")
		} else {
			fmt.Println("No se encontraron rutas.")
		}
		return
	}

	for i, r := range routes {
		marker := " "
		if r == view.Selected() {
			marker = "*"
		}
		fmt.Printf("%s%d. %s | %s | %.2f €\n", marker, i+1, r.Summary, r.TotalDuration, r.TotalPrice)
		for _, s := range r.Steps {
			fmt.Printf("     %s %s → %s (%s-%s) %s\n",
				model.GetTransportDisplayName(s.TransportType), s.Origin, s.Destination,
				s.DepartureTime, s.ArrivalTime, s.BookingInfo.Details)
		}
		if r.Notes != "" {
			fmt.Printf("     %s\n", r.Notes)
		}
		for _, a := range r.AccommodationSuggestions {
			fmt.Printf("     🏨 %s (%s): %s\n", a.Name, a.Type, a.ContactDetails)
		}
	}
}

func printUpdate(sub model.Subscription, update *model.TripUpdate, err error) {
	if err != nil {
		fmt.Printf("❌ %s: %s\n", sub.Summary, updateFailureMessage(err))
		log.Printf("⚠️ %v", err)
		return
	}
	icons := map[model.UpdateKind]string{
		model.UpdateSuccess: "✅",
		model.UpdateWarning: "⚠️",
		model.UpdateError:   "❌",
		model.UpdateInfo:    "ℹ️",
	}
	fmt.Printf("%s %s (%s): %s\n", icons[update.Kind], sub.Summary, sub.Date, update.Message)
}

// updateFailureMessage は運行情報の取得失敗を表示用の文言にする
func updateFailureMessage(err error) string {
	switch {
	case api.IsStatus(err, http.StatusGatewayTimeout):
		return "The server took too long to check for updates."
	case api.IsStatus(err, http.StatusBadRequest):
		return "The server rejected the subscription details."
	default:
		return "Failed to check for updates."
	}
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
