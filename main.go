package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raezil/qwant-go/qwant"
)

func main() {
	appID := os.Getenv("QWANT_APP_ID")
	client := qwant.NewClient(appID)

	// basic search
	page, err := client.Search(context.Background(), qwant.SearchRequest{
		Query:  "Go 1.25 release notes",
		Kind:   qwant.KindWeb, // or KindNews, KindImages, KindVideos, KindShopping, KindMusic
		Locale: "en_US",
	})
	if err != nil {
		panic(err)
	}
	if err := page.Err(); err != nil {
		panic(err)
	}

	for _, it := range page.Items() {
		it = qwant.StripMarkup(it)
		fmt.Printf("%s\n  %s\n", it.Title, it.URL)
	}
}
