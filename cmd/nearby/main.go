package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/geocode"
	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/overpass"
	"github.com/heliomed/nearbycare/internal/service"
	"go.uber.org/zap"
)

func main() {
	var (
		zipcode = flag.String("zipcode", "", "6-digit Indian postal code")
		lat     = flag.String("lat", "", "Latitude of the search center")
		lon     = flag.String("lon", "", "Longitude of the search center")
		radius  = flag.Int("radius", model.DefaultRadiusM, "Search radius in meters")
		types   = flag.String("types", "pharmacy,hospital,clinic", "Comma-separated place types")
		format  = flag.String("format", "json", "Output format: json or text")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	req := model.SearchRequest{
		Zipcode: strings.TrimSpace(*zipcode),
		Radius:  *radius,
		Types:   strings.Split(*types, ","),
	}
	if req.Lat, err = parseCoordinate(*lat); err != nil {
		logger.Fatal("Invalid -lat", zap.Error(err))
	}
	if req.Lon, err = parseCoordinate(*lon); err != nil {
		logger.Fatal("Invalid -lon", zap.Error(err))
	}

	geocoder := geocode.NewNominatimClient(geocode.Config{
		BaseURL:   cfg.Upstream.NominatimURL,
		Country:   cfg.Upstream.Country,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.GeocodeTimeout,
	})
	fetcher := overpass.NewClient(cfg.Upstream.OverpassURL, cfg.Upstream.UserAgent)
	svc := service.NewService(geocoder, fetcher,
		service.PerSearchClients(cfg.Upstream.ConnectTimeout, cfg.Upstream.RequestTimeout), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := svc.FindNearby(ctx, req)
	if err != nil {
		logger.Fatal("Search failed", zap.String("kind", string(service.KindOf(err))), zap.Error(err))
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			logger.Fatal("Failed to encode response", zap.Error(err))
		}
	case "text":
		printResults(resp)
	default:
		logger.Fatal("Unknown output format", zap.String("format", *format))
	}
}

func parseCoordinate(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func printResults(resp *model.SearchResponse) {
	fmt.Printf("Center: %.4f, %.4f  Radius: %dm  Found: %d\n\n",
		resp.CenterLat, resp.CenterLon, resp.RadiusM, resp.Count)
	for _, p := range resp.Results {
		fmt.Printf("%6.2f km  %-9s %s\n", p.Distance, p.Type, p.Name)
		fmt.Printf("           %s\n", p.Address)
		if p.Phone != nil {
			fmt.Printf("           tel: %s\n", *p.Phone)
		}
	}
}
