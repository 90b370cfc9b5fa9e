package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/flowattack/pkg/export"
	"github.com/dd0wney/flowattack/pkg/logging"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/validation"
)

var (
	exportOut    string
	exportBucket string
	exportPrefix string
	exportRegion string
	exportName   string
	exportTopK   int
	exportPretty bool

	exportCmd = &cobra.Command{
		Use:   "export <csv|graphml|summary|json>",
		Short: "Write the graph to a local directory or an S3 bucket",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
)

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportOut, "out", "o", "", "output directory (overrides export.dir)")
	f.StringVar(&exportBucket, "s3-bucket", "", "upload to this S3 bucket instead of a directory")
	f.StringVar(&exportPrefix, "s3-prefix", "", "key prefix inside the bucket")
	f.StringVar(&exportRegion, "region", "", "AWS region (defaults to the environment)")
	f.StringVar(&exportName, "name", "", "base file name (default flowattack-<timestamp>)")
	f.IntVar(&exportTopK, "top", export.DefaultTopK, "nodes per ranking in the summary format")
	f.BoolVar(&exportPretty, "pretty", false, "indent JSON output")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var sink export.Sink
	if bucket := validation.DefaultOr(exportBucket, a.cfg.Export.S3Bucket); bucket != "" {
		prefix := validation.DefaultOr(exportPrefix, a.cfg.Export.S3Prefix)
		if sink, err = export.NewS3Sink(ctx, bucket, prefix, exportRegion); err != nil {
			return err
		}
	} else {
		sink = export.FileSink{Dir: validation.DefaultOr(validation.DefaultOr(exportOut, a.cfg.Export.Dir), ".")}
	}

	base := validation.DefaultOr(exportName, "flowattack-"+time.Now().UTC().Format("20060102-150405"))
	opts := export.Options{Format: format, TopK: exportTopK, Pretty: exportPretty}

	var (
		where    string
		writeErr error
	)
	a.sess.Read(func(st session.State) {
		where, writeErr = export.Write(ctx, sink, st.Graph, base, opts)
	})
	if writeErr != nil {
		return writeErr
	}

	a.logger.Info("graph exported",
		logging.Operation("export"),
		logging.String("format", string(format)),
		logging.String("location", where))
	fmt.Fprintln(cmd.OutOrStdout(), where)
	return nil
}
