package lib

const (
	DEFAULT_NDIM        = 2
	DEFAULT_MIN_ENTRIES = 25
	DEFAULT_MAX_ENTRIES = 50

	DEMO_NUM_OBJECTS = 20000
	DEMO_NUM_QUERIES = 1000
	DEMO_NUM_WORKERS = 100
)
