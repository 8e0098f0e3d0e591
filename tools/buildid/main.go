package main

import (
	"fmt"
	"os"
	"time"

	"camp-engine/internal/version"
)

const dateLayout = "2006-01-02"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "now":
		printID(time.Now().UTC().Format(dateLayout))
	case "id":
		if len(os.Args) < 3 {
			fmt.Println("Usage: buildid id <YYYY-MM-DD>")
			return
		}
		printID(os.Args[2])
	case "ldflags":
		date := time.Now().UTC().Format(dateLayout)
		if len(os.Args) >= 3 {
			date = os.Args[2]
		}
		if _, err := version.BuildIDFor(date); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("-X camp-engine/internal/version.BuildDate=%s\n", date)
	default:
		printHelp()
	}
}

func printID(date string) {
	id, err := version.BuildIDFor(date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\t%d\n", date, id)
}

func printHelp() {
	fmt.Println(`Build ID - номер сборки по дате
Commands:
  now                 - номер сборки для сегодняшней даты (UTC)
  id <YYYY-MM-DD>     - номер сборки для даты
  ldflags [date]      - флаг -X для go build с датой сборки`)
}
