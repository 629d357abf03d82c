package minijson

// Object is an insertion-ordered string-keyed map. Field order is part of the
// wire format this package produces, so plain Go maps are not enough.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores value under key, keeping first-set order. It returns the Object
// so response shapes can be built in one chain.
func (o *Object) Set(key string, value any) *Object {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// String returns the value under key rendered as a string: string values
// as-is, numbers in their natural notation, anything else empty. Clients are
// loose about quoting scalars, so number-valued fields still read as text.
func (o *Object) String(key string) string {
	switch t := o.values[key].(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	default:
		return ""
	}
}

// Number returns the float value under key, or false if the field is absent
// or not a number.
func (o *Object) Number(key string) (float64, bool) {
	v, ok := o.values[key].(float64)
	return v, ok
}

// Int returns the value under key rounded to the nearest integer.
func (o *Object) Int(key string) (int, bool) {
	v, ok := o.values[key].(float64)
	if !ok {
		return 0, false
	}
	if v < 0 {
		return int(v - 0.5), true
	}
	return int(v + 0.5), true
}

// Objects returns the array of objects under key. Non-object elements are
// skipped; a missing or non-array field yields nil.
func (o *Object) Objects(key string) []*Object {
	arr, ok := o.values[key].([]any)
	if !ok {
		return nil
	}
	var objects []*Object
	for _, el := range arr {
		if obj, ok := el.(*Object); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}
