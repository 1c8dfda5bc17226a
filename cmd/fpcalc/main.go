package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fendysetiawan/SimpleFpCalc/internal/calc/building"
	fp "github.com/fendysetiawan/SimpleFpCalc/internal/calc/fp"
	"github.com/fendysetiawan/SimpleFpCalc/internal/calc/partition"
	"github.com/fendysetiawan/SimpleFpCalc/internal/geo"
	"github.com/fendysetiawan/SimpleFpCalc/internal/hazard"
	"github.com/fendysetiawan/SimpleFpCalc/internal/logging"

	"github.com/joho/godotenv"
)

// fpcalc runs one partition-wall Fp calculation from the command line:
// geocode (or take coordinates), fetch SDS, derive the building model and
// print the coefficient breakdown.
func main() {
	address := flag.String("address", "", "building address (used when lat/lon are not given)")
	lat := flag.Float64("lat", 0, "latitude")
	lon := flag.Float64("lon", 0, "longitude")
	hasCoords := flag.Bool("coords", false, "use -lat/-lon instead of geocoding -address")
	risk := flag.String("risk", "II", "risk category: II (office) or IV (hospital)")
	btype := flag.String("type", "other", "building material: steel, concrete, masonry, wood, other")
	floors := flag.Int("floors", 1, "total number of floors")
	floor := flag.Int("floor", 1, "highest floor of partition installation")
	tall := flag.Bool("tall", false, "partition wall taller than 9 ft")
	siteClass := flag.String("site-class", "", "site class sent to the design-maps service")
	flag.Parse()

	_ = godotenv.Load() // optional .env, same convention as the server
	logging.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	latV, lonV := *lat, *lon
	if !*hasCoords {
		geocoder := geo.NewClient()
		if base := os.Getenv("NOMINATIM_BASE_URL"); base != "" {
			geocoder.BaseURL = base
		}
		loc, err := geocoder.Geocode(ctx, *address)
		if err != nil {
			logging.Logger.WithError(err).Fatal("Geocoding failed")
		}
		fmt.Printf("Location: %s (%.6f, %.6f)\n", loc.DisplayName, loc.Lat, loc.Lon)
		latV, lonV = loc.Lat, loc.Lon
	}

	usgs := hazard.NewClient()
	if base := os.Getenv("USGS_BASE_URL"); base != "" {
		usgs.BaseURL = base
	}
	provider := hazard.NewProvider(usgs, hazard.NewCache())

	sds, err := provider.SDS(ctx, latV, lonV, *siteClass)
	if err != nil {
		logging.Logger.WithError(err).Fatal("SDS fetch failed")
	}
	fmt.Printf("SDS = %.3f g\n", sds)

	geom, err := building.Derive(building.Input{
		RiskCategory:   building.RiskCategory(*risk),
		BuildingType:   building.BuildingType(*btype),
		Floors:         *floors,
		PartitionFloor: *floor,
	})
	if err != nil {
		logging.Logger.WithError(err).Fatal("Invalid building description")
	}

	category := partition.HeightAtMost9Ft
	if *tall {
		category = partition.HeightAbove9Ft
	}
	factors, err := partition.Lookup(category, geom.ElevationFt > 0)
	if err != nil {
		logging.Logger.WithError(err).Fatal("Partition lookup failed")
	}

	res, err := fp.Calculate(fp.Input{
		SDS: sds,
		Ap:  factors.CAR,
		Rpo: factors.Rpo,
		Ie:  geom.Ie,
		Rmu: geom.Rmu,
		ZFt: geom.ElevationFt,
		HFt: geom.TotalHeightFt,
	})
	if err != nil {
		logging.Logger.WithError(err).Fatal("Calculation failed")
	}

	fmt.Printf("h = %.1f ft, z = %.1f ft (%d floors x %.0f ft)\n",
		geom.TotalHeightFt, geom.ElevationFt, geom.Floors, geom.StoryHeightFt)
	fmt.Printf("CAR = %.2f, Rpo = %.2f, Ie = %.2f, Rmu = %.3f\n",
		factors.CAR, factors.Rpo, geom.Ie, geom.Rmu)
	fmt.Printf("Fp calc = %.4f, bounds [%.4f, %.4f]\n", res.FpCalc, res.FpMin, res.FpMax)
	fmt.Printf("Fp coefficient = %.3f\n", res.Fp)
}
