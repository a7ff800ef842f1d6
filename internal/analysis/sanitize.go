package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/davisolsen/planpick/pkg/models"
)

// The vision model is well-meaning but unreliable: fields go missing, numbers
// arrive as strings, room types drift outside the schema. Validate reports
// those problems; Sanitize repairs them. Both are pure and never panic.

const (
	// squareFootageTolerance is how far reported square footage may drift
	// from length x width before geometry wins.
	squareFootageTolerance = 5.0

	// minRoomSquareFootage is the floor below which a reported value is
	// replaced with the room-type default.
	minRoomSquareFootage = 10.0

	// maxPlausibleSquareFootage flags suspiciously large rooms. Large open
	// plans are legal, so this only warns.
	maxPlausibleSquareFootage = 2000.0

	// minTotalSquareFootage flags a whole-file total that is too small for
	// any file that reported at least one room.
	minTotalSquareFootage = 100.0

	defaultConfidence = 0.5
)

// validRoomTypes is the closed room-type set. Anything else becomes "other".
var validRoomTypes = map[string]bool{
	"kitchen":     true,
	"bathroom":    true,
	"bedroom":     true,
	"living_room": true,
	"dining_room": true,
	"office":      true,
	"other":       true,
}

// defaultSquareFootage maps room type to a fallback square footage used when
// the reported or recomputed value is implausibly small.
var defaultSquareFootage = map[string]float64{
	"kitchen":     200,
	"bathroom":    60,
	"bedroom":     150,
	"living_room": 300,
	"dining_room": 200,
	"office":      150,
	"other":       100,
}

var validPriorities = map[string]bool{
	"high":   true,
	"medium": true,
	"low":    true,
}

// Validate inspects a raw analysis payload and returns human-readable
// data-quality warnings. It never mutates its input. When the rooms field is
// not a list at all, the single unrecoverable warning is returned and
// per-room checks are skipped.
func Validate(raw map[string]interface{}) []string {
	rooms, ok := asSlice(raw["rooms"])
	if !ok {
		return []string{"analysis result has no valid rooms list"}
	}

	var warnings []string
	for i, rv := range rooms {
		n := i + 1
		room, ok := asMap(rv)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("room %d is not an object", n))
			continue
		}

		if name, ok := asString(room["name"]); !ok || name == "" {
			warnings = append(warnings, fmt.Sprintf("room %d is missing a name", n))
		}

		dims, hasDims := asMap(room["dimensions"])
		if !hasDims {
			warnings = append(warnings, fmt.Sprintf("room %d is missing dimensions", n))
		} else {
			sqft, sqftOK := asNumber(dims["squareFootage"])
			if !sqftOK || sqft < minRoomSquareFootage {
				warnings = append(warnings, fmt.Sprintf("room %d has missing or implausibly small square footage", n))
			}
			if sqftOK && sqft > maxPlausibleSquareFootage {
				warnings = append(warnings, fmt.Sprintf("room %d reports unusually large square footage (%.0f sq ft)", n, sqft))
			}
			length, lengthOK := asNumber(dims["length"])
			width, widthOK := asNumber(dims["width"])
			if sqftOK && lengthOK && widthOK && math.Abs(length*width-sqft) > squareFootageTolerance {
				warnings = append(warnings, fmt.Sprintf("room %d square footage %.0f disagrees with length x width (%.0f)", n, sqft, length*width))
			}
		}

		if cv, present := room["confidence"]; present {
			if conf, ok := asNumber(cv); !ok || conf < 0 || conf > 1 {
				warnings = append(warnings, fmt.Sprintf("room %d has confidence outside [0,1]", n))
			}
		}

		if tv, present := room["type"]; present {
			if typ, ok := asString(tv); !ok || !validRoomTypes[typ] {
				warnings = append(warnings, fmt.Sprintf("room %d has unrecognized type %v", n, tv))
			}
		}
	}

	if len(rooms) > 0 {
		total, ok := asNumber(raw["totalSquareFootage"])
		if !ok || total < minTotalSquareFootage {
			warnings = append(warnings, fmt.Sprintf("total square footage below %.0f sq ft for a plan with %d room(s)", minTotalSquareFootage, len(rooms)))
		}
	}

	return warnings
}

// Sanitize repairs a raw analysis payload into a structurally valid record.
// It is total and deterministic: any input, including an empty object,
// produces a well-formed AnalysisRecord, and equal inputs produce equal
// outputs. Running it over its own output is a no-op.
func Sanitize(raw map[string]interface{}) models.AnalysisRecord {
	record := models.AnalysisRecord{
		Rooms:           []models.Room{},
		FloorCount:      1,
		Recommendations: []models.ProductRecommendation{},
	}

	if rooms, ok := asSlice(raw["rooms"]); ok {
		for i, rv := range rooms {
			room, _ := asMap(rv)
			record.Rooms = append(record.Rooms, sanitizeRoom(room, i))
		}
	}

	if total, ok := asNumber(raw["totalSquareFootage"]); ok {
		record.TotalSquareFootage = total
	}
	if floors, ok := asNumber(raw["floorCount"]); ok && floors >= 1 {
		record.FloorCount = int(floors)
	}
	if recs, ok := asSlice(raw["recommendations"]); ok {
		for _, rv := range recs {
			if rec, ok := asMap(rv); ok {
				record.Recommendations = append(record.Recommendations, sanitizeRecommendation(rec))
			}
		}
	}

	return record
}

func sanitizeRoom(room map[string]interface{}, index int) models.Room {
	out := models.Room{
		Features: []string{},
	}

	if id, ok := asString(room["id"]); ok && id != "" {
		out.ID = id
	} else {
		out.ID = fmt.Sprintf("room-%d", index+1)
	}

	if name, ok := asString(room["name"]); ok && name != "" {
		out.Name = name
	} else {
		out.Name = fmt.Sprintf("Room %d", index+1)
	}

	if typ, ok := asString(room["type"]); ok && validRoomTypes[typ] {
		out.Type = typ
	} else {
		out.Type = "other"
	}

	out.Features = asStringSlice(room["features"])
	out.Requirements = sanitizeRequirements(room["requirements"])
	out.Dimensions = sanitizeDimensions(room["dimensions"], out.Type)

	if conf, ok := asNumber(room["confidence"]); ok && conf >= 0 && conf <= 1 {
		out.Confidence = conf
	} else {
		out.Confidence = defaultConfidence
	}

	return out
}

func sanitizeDimensions(v interface{}, roomType string) models.RoomDimensions {
	var dims models.RoomDimensions

	raw, ok := asMap(v)
	if ok {
		length, lengthOK := asNumber(raw["length"])
		width, widthOK := asNumber(raw["width"])
		if lengthOK {
			dims.Length = length
		}
		if widthOK {
			dims.Width = width
		}
		if height, ok := asNumber(raw["height"]); ok {
			dims.Height = height
		}
		if sqft, ok := asNumber(raw["squareFootage"]); ok {
			dims.SquareFootage = sqft
		}

		// Trust the reported square footage when it is close to the
		// geometry, trust the geometry when they disagree significantly.
		if lengthOK && widthOK {
			computed := length * width
			if math.Abs(computed-dims.SquareFootage) > squareFootageTolerance {
				dims.SquareFootage = computed
			}
		}
	}

	if dims.SquareFootage < minRoomSquareFootage {
		def, ok := defaultSquareFootage[roomType]
		if !ok {
			def = defaultSquareFootage["other"]
		}
		dims.SquareFootage = def
	}

	return dims
}

func sanitizeRequirements(v interface{}) models.RoomRequirements {
	raw, _ := asMap(v)
	return models.RoomRequirements{
		Electrical: asStringSlice(raw["electrical"]),
		Plumbing:   asStringSlice(raw["plumbing"]),
		HVAC:       asStringSlice(raw["hvac"]),
	}
}

func sanitizeRecommendation(raw map[string]interface{}) models.ProductRecommendation {
	rec := models.ProductRecommendation{
		Quantity: 1,
		Priority: "medium",
	}

	if category, ok := asString(raw["category"]); ok {
		rec.Category = category
	}
	if qty, ok := asNumber(raw["quantity"]); ok && qty >= 1 {
		rec.Quantity = int(qty)
	}
	if specs, ok := asMap(raw["specifications"]); ok {
		rec.Specifications = specs
	}
	if priority, ok := asString(raw["priority"]); ok && validPriorities[priority] {
		rec.Priority = priority
	}
	if reason, ok := asString(raw["reason"]); ok {
		rec.Reason = reason
	}

	return rec
}

// asNumber reads a numeric value tolerantly. The model sometimes returns
// numbers as strings, so those parse too.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// asStringSlice coerces a value to a string slice, keeping only string
// elements. Anything that is not a list yields an empty slice.
func asStringSlice(v interface{}) []string {
	out := []string{}
	if items, ok := asSlice(v); ok {
		for _, item := range items {
			if s, ok := asString(item); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
