package main

import (
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/lintang-b-s/boxtree/lib"
	"github.com/lintang-b-s/boxtree/lib/geom"
	"github.com/lintang-b-s/boxtree/lib/index"
	"github.com/lintang-b-s/boxtree/lib/util"
)

func main() {
	rt, err := index.NewTree(lib.DEFAULT_NDIM, lib.DEFAULT_MIN_ENTRIES, lib.DEFAULT_MAX_ENTRIES)
	if err != nil {
		panic(err)
	}

	// Generate the dataset in parallel; the tree itself is single-writer,
	// so the pool only produces boxes and insertion stays on this goroutine.
	workers := util.NewWorkerPool[int, *geom.Box](lib.DEMO_NUM_WORKERS, lib.DEMO_NUM_OBJECTS)
	for i := 0; i < lib.DEMO_NUM_OBJECTS; i++ {
		workers.AddJob(i)
	}
	close(workers.JobQueue)

	workers.Start(func(seed int) *geom.Box {
		faker := gofakeit.New(uint64(seed))
		x := faker.Float64Range(-1, 1)
		y := faker.Float64Range(-1, 1)
		w := faker.Float64Range(0, 0.01)
		h := faker.Float64Range(0, 0.01)
		return geom.NewBox2D(x, y, x+w, y+h)
	})
	workers.Wait()

	objects := make([]any, 0, lib.DEMO_NUM_OBJECTS)
	for box := range workers.CollectResults() {
		objects = append(objects, box)
	}

	startTimer := time.Now()
	added := rt.AddPacked(objects)
	fmt.Printf("packed %d boxes in %v: %d levels, leaf area %.4f, leaf volume %.6f\n",
		added, time.Since(startTimer), rt.Levels(), rt.LeafArea(), rt.LeafVolume())

	faker := gofakeit.New(0)

	startTimer = time.Now()
	found := 0
	for i := 0; i < lib.DEMO_NUM_QUERIES; i++ {
		x := faker.Float64Range(-1, 1)
		y := faker.Float64Range(-1, 1)
		found += len(rt.FindInSphere([]float64{x, y}, 0.05))
	}
	fmt.Printf("%d sphere queries in %v, %d hits\n",
		lib.DEMO_NUM_QUERIES, time.Since(startTimer), found)

	startTimer = time.Now()
	found = 0
	for i := 0; i < lib.DEMO_NUM_QUERIES; i++ {
		x := faker.Float64Range(-1, 1)
		y := faker.Float64Range(-1, 1)
		found += len(rt.FindKNearest(3, []float64{x, y}))
	}
	fmt.Printf("%d 3-nearest queries in %v, %d hits\n",
		lib.DEMO_NUM_QUERIES, time.Since(startTimer), found)

	if err := rt.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
