// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package generate

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/llm"
	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
)

const productSystemPrompt = "You are a helpful assistant that generates realistic grocery store product data. " +
	"Always respond with valid JSON only."

const productPromptTemplate = `Generate exactly %d realistic grocery store products for the category "%s".

IMPORTANT: Your response must be ONLY a valid JSON array. Do not include any text outside the JSON.

Each product object must have these exact keys:
- "product_name": A realistic product name (string)
- "brand": A realistic brand name (string)
- "size": Product size with number (string, e.g., "16 oz", "1 lb", "500g")
- "unit": Unit of measurement (string, e.g., "oz", "lb", "g", "ml", "count", "each")
- "price_per_unit": Price per unit as a decimal number (float, e.g., 3.99, 12.50)

Make products diverse and realistic for the %s category. Ensure price_per_unit reflects realistic grocery store prices.

Example format:
[
  {"product_name": "Fresh Organic Bananas", "brand": "Whole Foods", "size": "1 lb", "unit": "lb", "price_per_unit": 1.99},
  {"product_name": "Honeycrisp Apples", "brand": "Local Farm", "size": "3 lb", "unit": "lb", "price_per_unit": 4.99}
]`

// productSpec is the per-product shape requested from the model.
type productSpec struct {
	ProductName  string  `json:"product_name"`
	Brand        string  `json:"brand"`
	Size         string  `json:"size"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
}

func (s productSpec) valid() bool {
	return s.ProductName != "" && s.Brand != "" && s.Size != "" && s.Unit != ""
}

// brandVariants maps well-known brands to their store-label siblings
// for similar-product synthesis.
var brandVariants = map[string][]string{
	"Whole Foods": {"365 Everyday Value", "Whole Foods Market"},
	"Great Value": {"Walmart", "Equate"},
	"Kroger":      {"Simple Truth", "Private Selection"},
	"Target":      {"Good & Gather", "Market Pantry"},
	"Safeway":     {"O Organics", "Signature Select"},
}

var genericBrands = []string{"Store Brand", "Value Brand", "Premium Choice", "Fresh Select"}

var nameModifiers = []string{"Premium", "Organic", "Natural", "Fresh", "Classic", "Original", "Extra"}

// fallbackBrands feeds the scripted catalog used when the LLM is
// unavailable.
var fallbackBrands = map[string][]string{
	"Produce":        {"Fresh Market", "Organic Valley", "Local Farm", "Green Choice"},
	"Dairy":          {"Horizon", "Land O Lakes", "Great Value", "Organic Valley"},
	"Bakery":         {"Pepperidge Farm", "Wonder", "Sara Lee", "King Hawaiian"},
	"Meat & Seafood": {"Tyson", "Perdue", "Wild Planet", "Oscar Mayer"},
	"Pantry Staples": {"Hunt's", "Kraft", "General Mills", "Quaker"},
	"Snacks":         {"Lay's", "Cheetos", "Oreo", "Nabisco"},
	"Beverages":      {"Coca-Cola", "Pepsi", "Tropicana", "Nestlé"},
	"Household":      {"Tide", "Charmin", "Bounty", "Dawn"},
}

// GenerateProducts builds the product catalog per category in LLM
// batches, synthesizing similar variants for a slice of each batch and
// recording them in the substitution map. Failed batches degrade to the
// scripted catalog without variants.
func (g *Generator) GenerateProducts(ctx context.Context) []dataset.Product {
	var all []dataset.Product
	counter := 1

	for _, category := range Categories {
		var categoryProducts []dataset.Product

		for len(categoryProducts) < g.cfg.ProductsPerCategory {
			remaining := g.cfg.ProductsPerCategory - len(categoryProducts)
			batchSize := g.cfg.BatchSize
			if remaining < batchSize {
				batchSize = remaining
			}

			base, fromLLM := g.baseBatch(ctx, category, batchSize, counter)
			if len(base) == 0 {
				base = g.fallbackBatch(category, batchSize, counter)
				fromLLM = false
			}
			categoryProducts = append(categoryProducts, base...)
			counter += len(base)

			// Variants only make sense for model output; the scripted
			// catalog repeats item names anyway.
			if fromLLM {
				similar := g.similarProducts(base, counter)
				categoryProducts = append(categoryProducts, similar...)
				counter += len(similar)
			}
		}

		g.logger.Info().
			Str("category", category).
			Int("products", len(categoryProducts)).
			Msg("Category generated")
		all = append(all, categoryProducts...)
	}

	return all
}

// baseBatch asks the LLM for a batch of products. The second return
// reports whether the products actually came from the model.
func (g *Generator) baseBatch(ctx context.Context, category string, batchSize, startID int) ([]dataset.Product, bool) {
	if g.chat == nil {
		return nil, false
	}

	start := time.Now()
	prompt := fmt.Sprintf(productPromptTemplate, batchSize, category, category)
	content, err := g.chat.ChatJSON(ctx, productSystemPrompt, prompt, 2000, 0.7)
	if err != nil {
		metrics.RecordLLMBatch(category, "error", time.Since(start), 0)
		g.logger.Warn().Err(err).Str("category", category).
			Msg("LLM batch failed, using scripted catalog")
		return nil, false
	}

	raws, err := llm.ExtractArray(content)
	if err != nil {
		metrics.RecordLLMBatch(category, "parse_error", time.Since(start), 0)
		g.logger.Warn().Err(err).Str("category", category).
			Msg("LLM output unparseable, using scripted catalog")
		return nil, false
	}

	products := make([]dataset.Product, 0, batchSize)
	for _, raw := range raws {
		if len(products) == batchSize {
			break
		}
		var spec productSpec
		if err := json.Unmarshal(raw, &spec); err != nil || !spec.valid() {
			continue
		}
		products = append(products, dataset.Product{
			ProductID:    startID + len(products),
			ProductName:  spec.ProductName,
			Category:     category,
			Brand:        spec.Brand,
			Size:         spec.Size,
			Unit:         spec.Unit,
			PricePerUnit: spec.PricePerUnit,
		})
	}
	metrics.RecordLLMBatch(category, "success", time.Since(start), len(products))
	return products, true
}

// similarProducts synthesizes near-duplicates for a portion of the
// batch and records base-to-variant links in the substitution map.
func (g *Generator) similarProducts(base []dataset.Product, startID int) []dataset.Product {
	if len(base) == 0 {
		return nil
	}

	selectCount := int(float64(len(base)) * g.cfg.SimilarBatchPct)
	if selectCount < 1 {
		selectCount = 1
	}
	selected := sample(g.rng, base, selectCount)

	variantCount := int(float64(len(selected)) * g.cfg.SimilarSubsetPct)
	if variantCount < 1 {
		variantCount = 1
	}
	gettingVariants := sample(g.rng, selected, variantCount)

	var similar []dataset.Product
	currentID := startID
	for _, baseProduct := range gettingVariants {
		numVariants := g.rng.Intn(2) + 1
		variantIDs := make([]int, 0, numVariants)
		for v := 0; v < numVariants; v++ {
			similar = append(similar, g.similarProduct(baseProduct, currentID))
			variantIDs = append(variantIDs, currentID)
			currentID++
		}
		g.substitutionMap[baseProduct.ProductID] = variantIDs
	}
	return similar
}

// similarProduct derives a variant by nudging brand, size, price and
// occasionally the name.
func (g *Generator) similarProduct(base dataset.Product, newID int) dataset.Product {
	variant := base
	variant.ProductID = newID

	if g.rng.Float64() < 0.7 {
		if alternatives, ok := brandVariants[variant.Brand]; ok {
			variant.Brand = choice(g.rng, alternatives)
		} else {
			variant.Brand = choice(g.rng, genericBrands)
		}
	}

	if g.rng.Float64() < 0.6 {
		if amount, rest, ok := splitSize(variant.Size); ok {
			newAmount := math.Round(amount*uniformRange(g.rng, 0.8, 1.5)*10) / 10
			if newAmount > 0.1 {
				variant.Size = strings.TrimSpace(
					strconv.FormatFloat(newAmount, 'f', -1, 64) + " " + rest)
			}
		}
	}

	if g.rng.Float64() < 0.8 {
		newPrice := math.Round(variant.PricePerUnit*uniformRange(g.rng, 0.7, 1.3)*100) / 100
		if newPrice < 0.99 {
			newPrice = 0.99
		}
		variant.PricePerUnit = newPrice
	}

	if g.rng.Float64() < 0.3 {
		modifier := choice(g.rng, nameModifiers)
		if !strings.Contains(strings.ToLower(variant.ProductName), strings.ToLower(modifier)) {
			variant.ProductName = modifier + " " + variant.ProductName
		}
	}

	return variant
}

// splitSize parses a leading numeric amount out of a size string like
// "16 oz".
func splitSize(size string) (float64, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(size), " ", 2)
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, "", false
	}
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}
	return amount, rest, true
}

// fallbackBatch builds scripted products for a category. Produce and
// Dairy have curated item lists; the rest get invented names.
func (g *Generator) fallbackBatch(category string, batchSize, startID int) []dataset.Product {
	brands, ok := fallbackBrands[category]
	if !ok {
		brands = []string{"Generic Brand"}
	}

	products := make([]dataset.Product, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		brand := choice(g.rng, brands)

		var items, sizes []string
		var unit string
		var priceLo, priceHi float64
		switch category {
		case "Produce":
			items = []string{"Apples", "Bananas", "Carrots", "Lettuce", "Tomatoes", "Potatoes", "Onions"}
			sizes = []string{"1 lb", "2 lbs", "3 lbs", "5 lbs"}
			unit = "lb"
			priceLo, priceHi = 1.0, 6.0
		case "Dairy":
			items = []string{"Milk", "Cheese", "Yogurt", "Butter", "Eggs", "Cream"}
			sizes = []string{"16 oz", "32 oz", "1 gallon", "12 count"}
			unit = choice(g.rng, []string{"oz", "gallon", "count"})
			priceLo, priceHi = 2.0, 8.0
		default:
			items = make([]string, 10)
			for j := range items {
				items[j] = titleWord(g.faker.Word())
			}
			sizes = []string{"12 oz", "16 oz", "24 oz", "32 oz"}
			unit = "oz"
			priceLo, priceHi = 1.5, 12.0
		}

		name := choice(g.rng, items)
		products = append(products, dataset.Product{
			ProductID:    startID + i,
			ProductName:  brand + " " + name,
			Category:     category,
			Brand:        brand,
			Size:         choice(g.rng, sizes),
			Unit:         unit,
			PricePerUnit: math.Round(uniformRange(g.rng, priceLo, priceHi)*100) / 100,
		})
	}
	return products
}

func uniformRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
