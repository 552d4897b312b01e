package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	nvramOut := flag.String("nvram", "", "Write a blank NVRAM image to this file")
	floppyOut := flag.String("floppy", "", "Write a blank floppy image to this file")
	dumpIn := flag.String("dump", "", "Hex dump this image")
	limit := flag.Int("n", 256, "Bytes to dump (0 = whole file)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sysimg [options]\n\nCreates and inspects 3B2 NVRAM and floppy images.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sysimg -nvram nvram.bin\n")
		fmt.Fprintf(os.Stderr, "  sysimg -floppy blank.img\n")
		fmt.Fprintf(os.Stderr, "  sysimg -dump nvram.bin -n 64\n")
	}
	flag.Parse()

	if *nvramOut == "" && *floppyOut == "" && *dumpIn == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *nvramOut != "" {
		if err := writeImage(*nvramOut, blankImage(nvramSize, nvramFill)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", *nvramOut, nvramSize)
	}

	if *floppyOut != "" {
		if err := writeImage(*floppyOut, blankImage(floppySize, floppyFill)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", *floppyOut, floppySize)
	}

	if *dumpIn != "" {
		data, err := os.ReadFile(*dumpIn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", *dumpIn, describeImage(len(data)))
		fmt.Print(dumpImage(data, *limit))
	}
}
