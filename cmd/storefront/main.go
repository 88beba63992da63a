// Command storefront is a terminal stand-in for the rendering layer: it wires
// the client core to a backend and maps typed commands onto the same
// callbacks a browser UI would use.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopkart/storefront/config"
	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/infrastructure/api"
	"github.com/shopkart/storefront/internal/usecase"
	"github.com/sirupsen/logrus"
)

// consoleNotifier prints transient notices the way a snackbar would show
// them.
type consoleNotifier struct{}

func (consoleNotifier) Notify(level domain.NoticeLevel, message string) {
	switch level {
	case domain.NoticeError:
		logrus.Error(message)
	case domain.NoticeWarning:
		logrus.Warn(message)
	default:
		logrus.Info(message)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, api.Options{
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		logrus.SetLevel(logrus.DebugLevel)
	}

	sf := usecase.NewStorefront(client, client, client, consoleNotifier{}, cfg.Search.DebounceDelay)
	sf.SetOnChange(func() { render(sf) })

	ctx := context.Background()
	if err := sf.Load(ctx); err != nil {
		logrus.Warn("initial catalog load failed, backend may be down")
	}

	fmt.Println("commands: register <user> <pass> | login <user> <pass> | search <text> | add <productId> <qty> | qty <productId> <n> | cart | products | logout | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "register":
			if len(fields) == 3 {
				sf.Register(ctx, fields[1], fields[2])
			}
		case "login":
			if len(fields) == 3 {
				if err := sf.Login(ctx, fields[1], fields[2]); err == nil {
					sf.Load(ctx)
				}
			}
		case "logout":
			sf.Logout()
		case "search":
			// Feed the argument a character at a time to exercise the
			// debounce path the way typing does.
			text := strings.Join(fields[1:], " ")
			for i := 1; i <= len(text); i++ {
				sf.HandleSearch(ctx, text[:i])
			}
			if text == "" {
				sf.HandleSearch(ctx, "")
			}
		case "add":
			if len(fields) == 3 {
				if qty, err := strconv.Atoi(fields[2]); err == nil {
					sf.AddToCart(ctx, fields[1], qty)
				}
			}
		case "qty":
			if len(fields) == 3 {
				if qty, err := strconv.Atoi(fields[2]); err == nil {
					sf.HandleQuantity(ctx, fields[1], qty)
				}
			}
		case "cart":
			render(sf)
		case "products":
			for _, p := range sf.Catalog() {
				fmt.Printf("  %-18s %-34s %-12s $%.0f (%d/5)\n", p.ID, p.Name, p.Category, p.Cost, p.Rating)
			}
		default:
			fmt.Println("unknown command")
		}
	}
}

func render(sf *usecase.Storefront) {
	lines := sf.Lines()
	if len(lines) == 0 {
		fmt.Println("cart: empty")
		return
	}
	var total float64
	fmt.Println("cart:")
	for _, line := range lines {
		fmt.Printf("  %d x %s @ $%.0f\n", line.Qty, line.Product.Name, line.Product.Cost)
		total += float64(line.Qty) * line.Product.Cost
	}
	fmt.Printf("  total: $%.0f\n", total)
}
