package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hamzayazough/centris-scraper/models"
)

// PrintRunReport formats and prints the final run summary to the terminal.
// Observability only; it runs after a successful commit and is never printed
// for an aborted run.
func PrintRunReport(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  CENTRIS SYNC SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Run\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Inserted  : \033[1m%d\033[0m\n", r.Inserted)
	fmt.Printf("  Skipped   : \033[1m%d\033[0m (already ingested)\n", r.Skipped)
	fmt.Printf("  Elapsed   : \033[1m%.1fs\033[0m\n", r.Elapsed.Seconds())
	fmt.Println()

	fmt.Printf("\033[1;33m  Rent (inserted listings)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AverageRent > 0 {
		fmt.Printf("  Average : \033[1;32m$%.2f\033[0m\n", r.AverageRent)
		fmt.Printf("  Minimum : \033[1;32m$%.2f\033[0m\n", r.MinRent)
		fmt.Printf("  Maximum : \033[1;32m$%.2f\033[0m\n", r.MaxRent)
	} else {
		fmt.Printf("  No rent data available\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Inserts by Place\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.InsertsByPlace) == 0 {
		fmt.Printf("  No new places\n")
	} else {
		type placeCount struct {
			place string
			count int
		}
		var places []placeCount
		for place, cnt := range r.InsertsByPlace {
			places = append(places, placeCount{place, cnt})
		}
		sort.Slice(places, func(i, j int) bool {
			if places[i].count == places[j].count {
				return places[i].place < places[j].place
			}
			return places[i].count > places[j].count
		})
		for _, pc := range places {
			bar := strings.Repeat("█", pc.count)
			fmt.Printf("  %-34s %s (%d)\n", truncate(pc.place, 32), bar, pc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
