package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/raezil/qwant-go/qwant"
)

func main() {
	appFlag := flag.String("app", "", "Qwant application id (overrides QWANT_APP_ID)")
	pages := flag.Int("pages", 3, "pages to fetch")
	flag.Parse()

	appID := *appFlag
	if appID == "" {
		appID = os.Getenv("QWANT_APP_ID")
	}
	if appID == "" {
		fmt.Fprintln(os.Stderr, "missing app id: set -app or QWANT_APP_ID")
		os.Exit(2)
	}
	client := qwant.NewClient(appID,
		qwant.WithRateLimit(1, 1), // optional
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// First page, then follow NextPage; each call returns a fresh page.
	var all []qwant.Item
	page, err := client.Search(ctx, qwant.SearchRequest{
		Query:  "eiffel tower",
		Kind:   qwant.KindImages,
		Safe:   true,
		Locale: "fr_FR",
	})
	for n := 0; n < *pages; n++ {
		if err != nil {
			panic(err)
		}
		if err := page.Err(); err != nil {
			panic(err)
		}
		for _, it := range page.Items() {
			all = append(all, qwant.StripMarkup(it))
		}
		if n == *pages-1 || !page.HasMore() {
			break
		}
		page, err = client.NextPage(ctx, page)
	}

	out, _ := json.MarshalIndent(all, "", "  ")
	fmt.Println(string(out))
}
