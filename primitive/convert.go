package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"pathreflect/utils"
)

var (
	ErrNotConvertible = errors.New("not convertible")
	ErrFormat         = errors.New("invalid format")
	ErrOverflow       = errors.New("value out of range")
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	timeType            = reflect.TypeFor[time.Time]()
)

// Convert converts src into a new value of type dst, using only the conversion
// families enabled in allowed. Assignable values are copied as is.
func Convert(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !src.IsValid() || dst == nil {
		return reflect.Value{}, ErrNotConvertible
	}

	out := reflect.New(dst).Elem()
	if src.Type().AssignableTo(dst) {
		out.Set(src)
		return out, nil
	}

	from, to := FromReflectType(src.Type()), FromReflectType(dst)

	category := CategoryOf(ConversionPair{from, to})
	if category == CategoryNone {
		// named numbers and strings convert through their base kind
		from, to = Underlying(src.Type()), Underlying(dst)
		category = CategoryOf(ConversionPair{from, to})
	}

	if category == CategoryNone || allowed&category == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, src.Type(), dst)
	}

	if err := convertPair(src, from, out, to, category); err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s to %s: %w", src.Type(), dst, err)
	}

	return out, nil
}

func convertPair(src reflect.Value, from KindEnum, out reflect.Value, to KindEnum, category CategoryEnum) error {
	switch category {
	default:
		return ErrNotConvertible
	case CategorySafeNumber, CategoryUnsafeNumber:
		return setNumber(out, to, src, from)
	case CategoryTextNumber:
		if to == KindString {
			out.SetString(formatNumber(src, from))
			return nil
		}

		return parseNumber(out, to, src.String())
	case CategoryNumericBool:
		if to == KindBool {
			return setNumericBool(out, src, from)
		}

		var n int64
		if src.Bool() {
			n = 1
		}

		return setInt64(out, to, n)
	case CategoryTextualBool:
		if to == KindString {
			out.SetString(strconv.FormatBool(src.Bool()))
			return nil
		}

		b, err := parseBool(src.String())
		if err != nil {
			return err
		}

		out.SetBool(b)

		return nil
	case CategoryDatetime:
		if to == KindString {
			out.SetString(timeOf(src).Format(time.RFC3339Nano))
			return nil
		}

		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(src.String()))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}

		out.Set(reflect.ValueOf(t))

		return nil
	case CategoryTimestamp:
		if to == KindTime {
			n, err := int64Of(src, from)
			if err != nil {
				return err
			}

			out.Set(reflect.ValueOf(time.Unix(n, 0).UTC()))

			return nil
		}

		return setInt64(out, to, timeOf(src).Unix())
	case CategoryDuration:
		if to == KindString {
			out.SetString(time.Duration(src.Int()).String())
			return nil
		}

		d, err := time.ParseDuration(strings.TrimSpace(src.String()))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}

		out.SetInt(int64(d))

		return nil
	case CategoryNanoseconds:
		if to == KindDuration {
			n, err := int64Of(src, from)
			if err != nil {
				return err
			}

			out.SetInt(n)

			return nil
		}

		return setInt64(out, to, src.Int())
	case CategorySeconds:
		if to == KindDuration {
			ns := math.Round(src.Float() * float64(time.Second))
			if math.IsNaN(ns) || ns < math.MinInt64 || ns >= math.MaxInt64 {
				return ErrOverflow
			}

			out.SetInt(int64(ns))

			return nil
		}

		out.SetFloat(time.Duration(src.Int()).Seconds())

		return nil
	case CategoryEnumString:
		if to == KindString {
			out.SetString(enumText(src))
			return nil
		}

		if from == KindPrimitiveEnum && src.Kind() == out.Kind() {
			return setSameBase(out, src)
		}

		return parseEnum(out, enumText(src))
	}
}

func setNumber(out reflect.Value, to KindEnum, src reflect.Value, from KindEnum) error {
	switch {
	case from.IsSigned():
		return setInt64(out, to, src.Int())
	case from.IsUnsigned():
		return setUint64(out, to, src.Uint())
	default:
		return setFloat64(out, to, src.Float())
	}
}

func setInt64(out reflect.Value, to KindEnum, n int64) error {
	switch {
	case to.IsSigned():
		if out.OverflowInt(n) {
			return ErrOverflow
		}

		out.SetInt(n)
	case to.IsUnsigned():
		if n < 0 || out.OverflowUint(uint64(n)) {
			return ErrOverflow
		}

		out.SetUint(uint64(n))
	case to.IsFloat():
		out.SetFloat(float64(n))
	default:
		return ErrNotConvertible
	}

	return nil
}

func setUint64(out reflect.Value, to KindEnum, u uint64) error {
	switch {
	case to.IsSigned():
		if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
			return ErrOverflow
		}

		out.SetInt(int64(u))
	case to.IsUnsigned():
		if out.OverflowUint(u) {
			return ErrOverflow
		}

		out.SetUint(u)
	case to.IsFloat():
		out.SetFloat(float64(u))
	default:
		return ErrNotConvertible
	}

	return nil
}

func setFloat64(out reflect.Value, to KindEnum, f float64) error {
	if to.IsFloat() {
		if out.OverflowFloat(f) {
			return ErrOverflow
		}

		out.SetFloat(f)

		return nil
	}

	r := math.RoundToEven(f)
	if math.IsNaN(r) {
		return ErrOverflow
	}

	switch {
	case to.IsSigned():
		if r < math.MinInt64 || r >= math.MaxInt64 {
			return ErrOverflow
		}

		return setInt64(out, to, int64(r))
	case to.IsUnsigned():
		if r < 0 || r >= math.MaxUint64 {
			return ErrOverflow
		}

		return setUint64(out, to, uint64(r))
	default:
		return ErrNotConvertible
	}
}

func setNumericBool(out reflect.Value, src reflect.Value, from KindEnum) error {
	if from.IsUnsigned() {
		u := src.Uint()
		if !utils.IsInRange(0, u, 1) {
			return fmt.Errorf("%w: %d is not a boolean", ErrFormat, u)
		}

		out.SetBool(u == 1)

		return nil
	}

	n := src.Int()
	if !utils.IsInRange(0, n, 1) {
		return fmt.Errorf("%w: %d is not a boolean", ErrFormat, n)
	}

	out.SetBool(n == 1)

	return nil
}

func setSameBase(out, src reflect.Value) error {
	switch src.Kind() {
	case reflect.String:
		out.SetString(src.String())
		return nil
	default:
		return setInt64(out, Underlying(out.Type()), src.Int())
	}
}

func formatNumber(src reflect.Value, from KindEnum) string {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(src.Int(), 10)
	case from.IsUnsigned():
		return strconv.FormatUint(src.Uint(), 10)
	default:
		return strconv.FormatFloat(src.Float(), 'g', -1, from.Bits())
	}
}

func parseNumber(out reflect.Value, to KindEnum, s string) error {
	s = strings.TrimSpace(s)

	var err error

	switch {
	case to.IsSigned():
		var n int64
		if n, err = strconv.ParseInt(s, 10, to.Bits()); err == nil {
			out.SetInt(n)
		}
	case to.IsUnsigned():
		var u uint64
		if u, err = strconv.ParseUint(s, 10, to.Bits()); err == nil {
			out.SetUint(u)
		}
	default:
		var f float64
		if f, err = strconv.ParseFloat(s, to.Bits()); err == nil {
			out.SetFloat(f)
		}
	}

	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrFormat, s)
	}

	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrFormat, s)
	}
}

func parseEnum(out reflect.Value, text string) error {
	if reflect.PointerTo(out.Type()).Implements(textUnmarshalerType) {
		u := out.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}

		return nil
	}

	if out.Kind() == reflect.String {
		out.SetString(text)
		return nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a %s", ErrFormat, text, out.Type())
	}

	return setInt64(out, Underlying(out.Type()), n)
}

func enumText(v reflect.Value) string {
	if v.Type().Implements(stringerType) && v.CanInterface() {
		return v.Interface().(fmt.Stringer).String()
	}

	if v.Kind() == reflect.String {
		return v.String()
	}

	return strconv.FormatInt(v.Int(), 10)
}

func int64Of(src reflect.Value, from KindEnum) (int64, error) {
	if from.IsUnsigned() {
		u := src.Uint()
		if u > math.MaxInt64 {
			return 0, ErrOverflow
		}

		return int64(u), nil
	}

	return src.Int(), nil
}

func timeOf(v reflect.Value) time.Time {
	return v.Convert(timeType).Interface().(time.Time)
}
