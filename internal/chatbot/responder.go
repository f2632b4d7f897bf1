package chatbot

import (
	"strings"
	"time"
)

// Category is a named rule in the response table: if any pattern is a
// substring of the (lower-cased, trimmed) input, the category's response is
// returned. Categories are evaluated in slice order, first match wins.
type Category struct {
	Name     string
	Patterns []string
	Response string
}

// Reply is the responder's answer to a single message.
type Reply struct {
	Response    string   `json:"response"`
	Category    string   `json:"category"`
	Suggestions []string `json:"suggestions"`
	Timestamp   string   `json:"timestamp"`
}

// Responder maps free-text input to canned responses. It is deterministic
// and stateless; analytics side effects live in the Analytics sink.
type Responder struct {
	categories      []Category
	productAnswers  []productAnswer
	defaultResponse string
}

type productAnswer struct {
	keyword  string
	response string
}

// NewResponder builds the responder with the standard storefront rule table.
// Pricing is ordered before materials so mixed queries like
// "what is the price of cement" resolve to pricing.
func NewResponder() *Responder {
	return &Responder{
		categories: []Category{
			{
				Name:     "pricing",
				Patterns: []string{"price", "cost", "how much", "rate", "expensive", "cheap"},
				Response: "Pricing varies by material type, quantity, and delivery location. Cement: ₹300-450/bag | Bricks: ₹8-12/piece | Steel: ₹60-80/kg. For exact quotes, contact our sales team at +91 123 456 7890!",
			},
			{
				Name:     "materials",
				Patterns: []string{"material", "cement", "brick", "steel", "sand", "aggregate", "what do you sell", "products"},
				Response: "We offer premium building materials: Cement & Concrete | Steel & Reinforcement | Bricks & Blocks | Sand & Aggregates | Timber & Wood Products. Visit our Shop section for the detailed catalog!",
			},
			{
				Name:     "services",
				Patterns: []string{"service", "construction", "build", "project", "contractor"},
				Response: "Our services: 1) Home Construction | 2) Infrastructure Projects | 3) Corporate Solutions | 4) Renovation | 5) Project Consulting. Check our Services page for details!",
			},
			{
				Name:     "delivery",
				Patterns: []string{"delivery", "shipping", "transport", "when will i get", "order time"},
				Response: "Delivery: Standard 2-3 days | Express 24 hours | Free delivery on orders above ₹50,000 | We serve the Delhi/NCR region with reliable logistics partners.",
			},
			{
				Name:     "contact",
				Patterns: []string{"contact", "phone", "email", "address", "location", "where are you"},
				Response: "Contact us: Phone: +91 123 456 7890 | Email: info@crbuildingsolutions.com | Address: 123 Construction Lane, Delhi, India | Hours: Mon-Sat 9AM-6PM",
			},
			{
				Name:     "sustainability",
				Patterns: []string{"sustainable", "eco", "green", "environment", "eco-friendly"},
				Response: "We're committed to sustainability! We offer: Green building materials | Energy-efficient solutions | Waste management | LEED consulting. Visit our Sustainability page!",
			},
			{
				Name:     "greeting",
				Patterns: []string{"hello", "hi", "hey", "good morning", "good afternoon"},
				Response: "Hello! Welcome to C&R Building Solutions! I can help with materials, pricing, services, and more. How can I assist you today?",
			},
			{
				Name:     "thanks",
				Patterns: []string{"thank", "thanks", "appreciate"},
				Response: "You're welcome! Happy to help. Feel free to ask anything else about construction materials or services!",
			},
		},
		productAnswers: []productAnswer{
			{"cement", "We have multiple cement grades: OPC 53 Grade (₹350-450/bag) | PPC (₹320-400/bag) | PSC (₹380-480/bag). Bulk discounts available!"},
			{"brick", "Brick options: Red Clay Bricks (₹8-12/piece) | Fly Ash Bricks (₹10-14/piece) | AAC Blocks (₹2800-3500/m³). Quantity discounts apply!"},
			{"steel", "Steel products: TMT Bars (₹60-80/kg) | Structural Steel | Reinforcement Mesh. All ISI certified with quality guarantee!"},
			{"sand", "Sand varieties: River Sand (₹800-1200/ton) | M-Sand (₹600-900/ton) | Plastering Sand (₹700-1000/ton). Quality tested!"},
		},
		defaultResponse: "I can help with construction materials, services, pricing, and more. What would you like to know?",
	}
}

// Reply answers a message. Category is "default" when nothing matched and
// "product:<keyword>" for product-specific fallbacks.
func (r *Responder) Reply(message string) Reply {
	normalized := strings.ToLower(strings.TrimSpace(message))

	reply := Reply{
		Suggestions: r.suggestions(normalized),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	for _, cat := range r.categories {
		for _, pattern := range cat.Patterns {
			if strings.Contains(normalized, pattern) {
				reply.Response = cat.Response
				reply.Category = cat.Name
				return reply
			}
		}
	}

	for _, pa := range r.productAnswers {
		if strings.Contains(normalized, pa.keyword) {
			reply.Response = pa.response
			reply.Category = "product:" + pa.keyword
			return reply
		}
	}

	reply.Response = r.defaultResponse
	reply.Category = "default"
	return reply
}

// suggestions picks follow-up questions with an independent substring pass.
func (r *Responder) suggestions(normalized string) []string {
	switch {
	case strings.Contains(normalized, "material") ||
		strings.Contains(normalized, "cement") ||
		strings.Contains(normalized, "brick"):
		return []string{
			"Cement prices and grades",
			"Brick types and sizes",
			"Steel quality and pricing",
			"Delivery for materials",
		}
	case strings.Contains(normalized, "price") || strings.Contains(normalized, "cost"):
		return []string{
			"Cement price per bag",
			"Brick pricing details",
			"Steel rates today",
			"Bulk order discounts",
		}
	case strings.Contains(normalized, "service") || strings.Contains(normalized, "construction"):
		return []string{
			"Home construction process",
			"Infrastructure projects",
			"Corporate building solutions",
			"Get a project quote",
		}
	default:
		return []string{
			"Building materials catalog",
			"Construction services",
			"Pricing and quotes",
			"Contact information",
		}
	}
}
