// Command extract converts a handbook PDF into cleaned text and publishes
// it to the document source the server ingests from. Run it once per
// document before deploying:
//
//	extract -pdf handbook-ug.pdf -out docs/extracted/handbook-ug.txt \
//	    -key extracted/handbook-ug.txt -bucket my-bucket
//
// Without -bucket the text is only written locally.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/unikit/regent/pkg/extract"
	"github.com/unikit/regent/pkg/source"
)

func main() {
	var (
		pdfPath = flag.String("pdf", "", "path to the PDF to extract")
		outPath = flag.String("out", "", "local path for the extracted text")
		key     = flag.String("key", "", "document source key to upload under")
		bucket  = flag.String("bucket", os.Getenv("AWS_BUCKET_NAME"), "S3 bucket to upload to")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *pdfPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	var uploader extract.Uploader
	if *bucket != "" && *key != "" {
		s3, err := source.NewS3(ctx, *bucket)
		if err != nil {
			logger.Error("failed to set up S3", "error", err)
			os.Exit(1)
		}
		uploader = s3
	}

	text, err := extract.Process(ctx, *pdfPath, *outPath, *key, uploader)
	if err != nil {
		logger.Error("extraction failed", "pdf", *pdfPath, "error", err)
		os.Exit(1)
	}

	logger.Info("extracted", "pdf", *pdfPath, "out", *outPath, "bytes", len(text), "uploaded", uploader != nil)
}
