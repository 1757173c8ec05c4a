// Command symflow inspects ONNX models and converts them into symbolic
// expression graphs.
//
// Usage:
//
//	symflow info <model.onnx>     show model structure
//	symflow convert <model.onnx>  print the converted expression
//	symflow version               show version
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/symflow-ml/symflow/convert"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Printf("symflow %s\n", version)
	case "info":
		err = runInfo(args[1:])
	case "convert":
		err = runConvert(args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "symflow: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  symflow info <model.onnx>     show model structure")
	fmt.Fprintln(os.Stderr, "  symflow convert <model.onnx>  print the converted expression")
	fmt.Fprintln(os.Stderr, "  symflow version               show version")
}

func runInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("info expects exactly one model path")
	}
	path := args[0]

	conv := convert.New(path)
	if err := conv.Load(); err != nil {
		return err
	}
	model := conv.Model()

	fmt.Printf("Model:    %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(stat.Size())))
	}
	fmt.Printf("Producer: %s %s\n", model.ProducerName, model.ProducerVersion)
	fmt.Printf("Opset:    %d\n", model.OpsetVersion())
	fmt.Printf("Nodes:    %d\n", len(model.Graph.Nodes))
	fmt.Printf("Weights:  %d\n", len(model.Graph.Initializers))

	inputs, err := conv.Inputs()
	if err != nil {
		return err
	}
	fmt.Println("Inputs:")
	for _, in := range inputs {
		fmt.Printf("  %s %s %s\n", in.Name, in.Shape, in.DType.Name())
	}

	outputs, err := conv.Outputs()
	if err != nil {
		return err
	}
	fmt.Println("Outputs:")
	for _, out := range outputs {
		fmt.Printf("  %s %s %s\n", out.Name, out.Shape, out.DType.Name())
	}

	fmt.Println("Operators:")
	histogram := make(map[string]int)
	for i := range model.Graph.Nodes {
		histogram[model.Graph.Nodes[i].OpType]++
	}
	ops := make([]string, 0, len(histogram))
	for op := range histogram {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Printf("  %-16s %d\n", op, histogram[op])
	}
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	strictInputs := fs.Bool("strict-inputs", false, "fail on unresolved node inputs")
	strictShapes := fs.Bool("strict-shapes", false, "fail on inputs without fully known shapes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("convert expects exactly one model path")
	}

	conv := convert.New(fs.Arg(0), convert.Options{
		StrictInputs: *strictInputs,
		StrictShapes: *strictShapes,
	})
	if err := conv.Load(); err != nil {
		return err
	}
	expr, err := conv.Convert()
	if err != nil {
		return err
	}
	fmt.Println(expr)
	return nil
}
