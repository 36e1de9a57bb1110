package mapping

import "context"

// GetOrDefault returns the value associated with k in m, or def if k is not
// present.
//
// It is the canonical implementation of [Mapping.GetOrDefault] in terms of
// [Mapping.Get].
func GetOrDefault(ctx context.Context, m Mapping, k, def string) (string, error) {
	v, err := m.Get(ctx, k)
	if IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// PopOrDefault removes k from m and returns the value it was associated with,
// or def if k is not present.
//
// It is the canonical implementation of [Mapping.PopOrDefault] in terms of
// [Mapping.Delete].
func PopOrDefault(ctx context.Context, m Mapping, k, def string) (string, error) {
	v, err := m.Delete(ctx, k)
	if IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// SetIfAbsent returns the value associated with k in m. If k is not present,
// it is first associated with def.
//
// It is the canonical implementation of [Mapping.SetIfAbsent] in terms of
// [Mapping.Get] and [Mapping.Set]. The check and the write are not atomic.
func SetIfAbsent(ctx context.Context, m Mapping, k, def string) (string, error) {
	v, err := m.Get(ctx, k)
	if !IsNotFound(err) {
		return v, err
	}

	if err := m.Set(ctx, k, def); err != nil {
		return "", err
	}

	return def, nil
}

// CollectKeys returns the keys produced by a single call to [Mapping.RangeKeys].
func CollectKeys(ctx context.Context, m Mapping) ([]string, error) {
	var keys []string

	err := m.RangeKeys(
		ctx,
		func(_ context.Context, k string) (bool, error) {
			keys = append(keys, k)
			return true, nil
		},
	)

	return keys, err
}

// CollectValues returns the values produced by a single call to
// [Mapping.Range].
func CollectValues(ctx context.Context, m Mapping) ([]string, error) {
	var values []string

	err := m.Range(
		ctx,
		func(_ context.Context, _, v string) (bool, error) {
			values = append(values, v)
			return true, nil
		},
	)

	return values, err
}
