package region_test

import (
	"fmt"
	"os"
	"time"

	"github.com/vito/ttykit/pkg/region"
)

func ExampleManager_Scope() {
	m := region.NewManager(os.Stdout)
	err := m.Scope(2, func(r *region.Region) error {
		spin := region.NewSpinner("resolving", region.WithIcons(region.Arrow))
		bar := region.NewProgressBar("download")
		bar.AutoComplete = true
		if _, err := r.Submit(spin); err != nil {
			return err
		}
		if _, err := r.Submit(bar); err != nil {
			return err
		}

		for i := range 10 {
			bar.Set(float64(i+1) / 10)
			time.Sleep(50 * time.Millisecond)
		}
		spin.Finish("resolved")
		return r.Print("all done")
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
