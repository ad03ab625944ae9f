// Package chatbot answers showroom questions with a small keyword matcher
// backed by the live catalog.
package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

const fallbackReply = "I can help with car prices, available brands, accessories and test drives. Try asking about one of those, or browse the catalog."

// CatalogReader is the slice of the catalog the responder may consult.
type CatalogReader interface {
	ListCars(ctx context.Context, filters catalog.CarFilters) ([]catalog.Car, shared.Pagination, error)
	ListAccessories(ctx context.Context, filters catalog.AccessoryFilters) ([]catalog.Accessory, error)
}

// Service matches inbound messages against keyword rules.
type Service struct {
	catalog CatalogReader
}

// NewService constructs the responder.
func NewService(catalogReader CatalogReader) *Service {
	return &Service{catalog: catalogReader}
}

// rule maps trigger keywords to a reply builder. The first matching rule wins.
type rule struct {
	keywords []string
	reply    func(ctx context.Context, s *Service, message string) string
}

var rules = []rule{
	{
		keywords: []string{"hello", "hi ", "hey"},
		reply: func(ctx context.Context, s *Service, message string) string {
			return "Hello! Welcome to ZedCars. Ask me about our cars, prices, accessories or test drives."
		},
	},
	{
		keywords: []string{"price", "cost", "how much"},
		reply:    replyWithPrices,
	},
	{
		keywords: []string{"brand", "make", "manufacturer"},
		reply:    replyWithBrands,
	},
	{
		keywords: []string{"accessor"},
		reply:    replyWithAccessories,
	},
	{
		keywords: []string{"test drive", "test-drive", "testdrive"},
		reply: func(ctx context.Context, s *Service, message string) string {
			return "You can book a test drive through the booking form. Pick a car, a date and a time slot; we will confirm by email."
		},
	},
	{
		keywords: []string{"hours", "open", "location", "address"},
		reply: func(ctx context.Context, s *Service, message string) string {
			return "Our showroom is open Monday to Saturday, 9 AM to 6 PM."
		},
	},
}

// Reply produces an answer for one inbound message.
func (s *Service) Reply(ctx context.Context, message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return fallbackReply
	}
	// Pad so "hi " matches a bare "hi".
	padded := normalized + " "
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(padded, keyword) {
				return r.reply(ctx, s, normalized)
			}
		}
	}
	return fallbackReply
}

// replyWithPrices answers price questions. When the message names a known
// brand the answer is scoped to it.
func replyWithPrices(ctx context.Context, s *Service, message string) string {
	filters := catalog.CarFilters{OnlyActive: true, Page: 1, PerPage: 50}
	cars, _, err := s.catalog.ListCars(ctx, filters)
	if err != nil || len(cars) == 0 {
		return "I could not find any cars in the catalog right now. Please check back soon."
	}

	var scoped []catalog.Car
	for _, car := range cars {
		if strings.Contains(message, strings.ToLower(car.Brand)) {
			scoped = append(scoped, car)
		}
	}
	if scoped == nil {
		scoped = cars
	}

	min, max := scoped[0].Price, scoped[0].Price
	for _, car := range scoped[1:] {
		if car.Price < min {
			min = car.Price
		}
		if car.Price > max {
			max = car.Price
		}
	}
	if len(scoped) < len(cars) {
		return fmt.Sprintf("%s models range from $%.0f to $%.0f. Would you like to book a test drive?", scoped[0].Brand, min, max)
	}
	return fmt.Sprintf("Our cars range from $%.0f to $%.0f. Ask about a specific brand for details.", min, max)
}

func replyWithBrands(ctx context.Context, s *Service, message string) string {
	cars, _, err := s.catalog.ListCars(ctx, catalog.CarFilters{OnlyActive: true, Page: 1, PerPage: 50})
	if err != nil || len(cars) == 0 {
		return "I could not find any cars in the catalog right now. Please check back soon."
	}
	seen := make(map[string]bool)
	var brands []string
	for _, car := range cars {
		if !seen[car.Brand] {
			seen[car.Brand] = true
			brands = append(brands, car.Brand)
		}
	}
	return "We currently stock: " + strings.Join(brands, ", ") + "."
}

func replyWithAccessories(ctx context.Context, s *Service, message string) string {
	accessories, err := s.catalog.ListAccessories(ctx, catalog.AccessoryFilters{OnlyActive: true})
	if err != nil || len(accessories) == 0 {
		return "We do not have accessories in stock right now."
	}
	seen := make(map[string]bool)
	var categories []string
	for _, acc := range accessories {
		if !seen[acc.Category] {
			seen[acc.Category] = true
			categories = append(categories, acc.Category)
		}
	}
	return "We carry accessories in these categories: " + strings.Join(categories, ", ") + ". Ask a salesperson for a full list."
}

// Handler exposes the responder over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the chatbot handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers chatbot routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Chat)
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chatbot.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	reply := h.service.Reply(r.Context(), req.Message)
	httpx.JSON(w, http.StatusOK, map[string]string{"reply": reply})
}
