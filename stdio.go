// Copyright 2026. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package ludd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
)

// stats returns information about the LDD
func (b *LDD) stats() string {
	res := fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)", len(b.nodes)-b.freenum, (100.0 - r))
	return res
}

func (b *LDD) gcstats() string {
	res := fmt.Sprintf("# of GC:    %d\n", len(b.gcstat.history))
	allocated := int(b.setfinalizers)
	reclaimed := int(b.calledfinalizers)
	for _, g := range b.gcstat.history {
		allocated += g.setfinalizers
		reclaimed += g.calledfinalizers
	}
	res += fmt.Sprintf("Ext. refs:  %d\n", allocated)
	res += fmt.Sprintf("Reclaimed:  %d", reclaimed)
	return res
}

// Stats returns information about the LDD: the size of the node table, the
// number of nodes it holds, and the garbage collection history.
func (b *LDD) Stats() string {
	return b.stats() + "\n" + b.gcstats()
}

// PrintStats outputs a textual representation of the LDD statistics.
func (b *LDD) PrintStats() {
	fmt.Println("==============")
	fmt.Println(b.stats())
	fmt.Println("==============")
	fmt.Println(b.gcstats())
	if _DEBUG {
		fmt.Println("==============")
		fmt.Println(b.cacheStat)
		fmt.Println("==============")
		b.logTable()
	}
	fmt.Println("==============")
}

// ******************************************************************************************************

// Print returns a one-line description of node n.
func (b *LDD) Print(n Node) string {
	if b.error != nil {
		return fmt.Sprintf("node: error %s\n", b.error)
	}
	if n == nil {
		return "Error (nil node)"
	}
	if *n == 0 {
		return "Empty"
	}
	if *n == 1 {
		return "Accept"
	}
	if *n < 0 {
		return "Error"
	}
	if *n >= len(b.nodes) {
		return fmt.Sprintf("Error (%d not a valid index)", *n)
	}
	if b.nodes[*n].down == -1 {
		return fmt.Sprintf("Error (node %d undefined)", *n)
	}
	return fmt.Sprintf("(%d[%d] -> %d, %d)", *n, b.nodes[*n].value, b.nodes[*n].down, b.nodes[*n].right)
}

// PrintSet outputs a textual representation of the nodes reachable from n.
func (b *LDD) PrintSet(n Node) {
	b.print(os.Stdout, n)
}

// PrintAll prints the totality of the LDD table on the standard output
func (b *LDD) PrintAll() {
	b.printAll(os.Stdout)
}

func (b *LDD) print(w io.Writer, n Node) error {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", b.error)
		return b.error
	}
	// We collect the nodes reachable from n with a mark and sweep over the
	// table, which also gives us their count.
	cnodes := b.markcount(*n)
	nodes := make([]int, cnodes+2)
	nodes[0] = 0
	nodes[1] = 1
	counter := 2
	if *n == 0 {
		fmt.Fprintln(w, "Empty")
		return nil
	}
	if *n == 1 {
		fmt.Fprintln(w, "Accept")
		return nil
	}
	fmt.Fprintf(w, "node: %d\n", *n)
	for i := 2; i < len(b.nodes); i++ {
		if b.ismarked(i) {
			b.unmarknode(i)
			nodes[counter] = i
			counter++
		}
	}
	b.print_string(w, nodes)
	return nil
}

func (b *LDD) printAll(w io.Writer) error {
	nodes := make([]int, 2)
	nodes[0] = 0
	nodes[1] = 1
	for i := 2; i < len(b.nodes); i++ {
		if b.nodes[i].down != -1 {
			nodes = append(nodes, i)
		}
	}
	b.print_string(w, nodes)
	return nil
}

func (b *LDD) print_string(w io.Writer, nodes []int) {
	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	sort.Ints(nodes)
	for _, n := range nodes {
		if n > 1 {
			fmt.Fprintf(tw, "%d\t[%d\t] -> \t%d\t, %d\n", n, b.nodes[n].value, b.nodes[n].down, b.nodes[n].right)
		}
	}
	tw.Flush()
}

// ******************************************************************************************************

// PrintVec outputs the vectors of the set denoted by n, one vector per line,
// with the notation <0 1 2> for the vector 0.1.2.
func (b *LDD) PrintVec(n Node) {
	b.printVec(os.Stdout, n)
}

// FPrintVec outputs the vectors of the set denoted by n in the given file,
// or on the standard output when the filename is "-".
func (b *LDD) FPrintVec(filename string, n Node) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return b.printVec(out, n)
}

func (b *LDD) printVec(w io.Writer, n Node) error {
	if err := b.checkptr(n); err != nil {
		fmt.Fprintf(w, "ERROR: %s\n", err)
		return err
	}
	buf := bufio.NewWriter(w)
	fmt.Fprintln(buf, "{")
	b.allvec(*n, []uint32{}, func(vec []uint32) error {
		buf.WriteString("  <")
		for k, v := range vec {
			if k > 0 {
				buf.WriteString(" ")
			}
			fmt.Fprintf(buf, "%d", v)
		}
		buf.WriteString(">\n")
		return nil
	})
	fmt.Fprintln(buf, "}")
	return buf.Flush()
}

// ******************************************************************************************************

// Example of AUT output for a set with two nodes and properties on states
//
// des(0,8,4)
// (0,"S.`Empty`",0)
// (1,"S.`Accept`",1)
// (2,"S.`3`",2)
// (2,"E.`d`",1)
// (2,"E.`r`",0)

// PrintAut prints a textual, graph-like, description representing the nodes
// reachable from n using the AUT format. The file can be displayed using the
// nd tool.
func (b *LDD) PrintAut(n Node) {
	b.printAut(bufio.NewWriter(os.Stdout), n)
}

// PrintAllAut prints a textual, graph-like, description of all the nodes in
// the LDD using the AUT format. The file can be displayed using the nd tool.
func (b *LDD) PrintAllAut() {
	b.printAllAut(bufio.NewWriter(os.Stdout))
}

func (b *LDD) FPrintAut(filename string, n Node) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return b.printAut(bufio.NewWriter(out), n)
}

func (b *LDD) FPrintAllAut(filename string) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return b.printAllAut(bufio.NewWriter(out))
}

func (b *LDD) printAut(w *bufio.Writer, n Node) error {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", b.error)
		return b.error
	}
	cnodes := b.markcount(*n)
	nodes := make(map[int]int, cnodes)
	nodes[0] = 0
	nodes[1] = 1
	counter := 2
	for i := 2; i < len(b.nodes); i++ {
		if b.ismarked(i) {
			b.unmarknode(i)
			nodes[i] = counter
			counter++
		}
	}
	b.print_aut(w, nodes)
	return nil
}

func (b *LDD) printAllAut(w *bufio.Writer) error {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", b.error)
		return b.error
	}
	nodes := make(map[int]int)
	nodes[0] = 0
	nodes[1] = 1
	counter := 2
	for i := 2; i < len(b.nodes); i++ {
		if b.nodes[i].down != -1 {
			nodes[i] = counter
			counter++
		}
	}
	b.print_aut(w, nodes)
	return nil
}

func (b *LDD) print_aut(w *bufio.Writer, nodes map[int]int) {
	cnodes := len(nodes)
	fmt.Fprintf(w, "des(0,%d,%d)\n", 3*cnodes-4, cnodes)
	fmt.Fprintln(w, "(0, \"S."+"`"+"Empty"+"`"+"\", 0)")
	fmt.Fprintln(w, "(1, \"S."+"`"+"Accept"+"`"+"\", 1)")
	for k, v := range nodes {
		if k > 1 {
			fmt.Fprintf(w, "(%d, \"S."+"`"+"%d"+"`"+"\", %[1]d)\n", v, b.nodes[k].value)
			fmt.Fprintf(w, "(%d, \"E."+"`"+"d"+"`"+"\", %d)\n", v, nodes[b.nodes[k].down])
			fmt.Fprintf(w, "(%d, \"E."+"`"+"r"+"`"+"\", %d)\n", v, nodes[b.nodes[k].right])
		}
	}
	w.Flush()
}

// ******************************************************************************************************

// PrintDot prints a graph-like description of the nodes reachable from n
// using the DOT format.
func (b *LDD) PrintDot(n Node) {
	b.printDot(bufio.NewWriter(os.Stdout), n)
}

func (b *LDD) PrintAllDot() {
	b.printAllDot(bufio.NewWriter(os.Stdout))
}

func (b *LDD) FPrintDot(filename string, n Node) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return b.printDot(bufio.NewWriter(out), n)
}

func (b *LDD) FPrintAllDot(filename string) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return b.printAllDot(bufio.NewWriter(out))
}

func (b *LDD) printDot(w *bufio.Writer, n Node) error {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", b.error)
		w.Flush()
		return b.error
	}
	cnodes := b.markcount(*n)
	nodes := make([]int, cnodes+2)
	nodes[0] = 0
	nodes[1] = 1
	counter := 2
	for i := 2; i < len(b.nodes); i++ {
		if b.ismarked(i) {
			b.unmarknode(i)
			nodes[counter] = i
			counter++
		}
	}
	b.print_dot(w, nodes)
	return nil
}

func (b *LDD) printAllDot(w *bufio.Writer) error {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s\n", b.error)
		return b.error
	}
	nodes := make([]int, 2)
	nodes[0] = 0
	nodes[1] = 1
	for i := 2; i < len(b.nodes); i++ {
		if b.nodes[i].down != -1 {
			nodes = append(nodes, i)
		}
	}
	b.print_dot(w, nodes)
	return nil
}

// print_dot returns a GraphViz DOT file from a list of nodes. Down branches
// are drawn with plain arrows and right branches with dotted ones. We do not
// draw arcs that go to the empty set, so right chains simply stop at their
// last value.
func (b *LDD) print_dot(w *bufio.Writer, nodes []int) {
	sort.Ints(nodes)
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, "1 [shape=box, label=\"1\", style=filled, shape=box, height=0.3, width=0.3];")

	for _, v := range nodes {
		if v > 1 {
			fmt.Fprintf(w, "%d %s\n", v, dotlabel(v, b.nodes[v].value))
			if b.nodes[v].down != 0 {
				fmt.Fprintf(w, "%d -> %d [style=filled];\n", v, b.nodes[v].down)
			}
			if b.nodes[v].right != 0 {
				fmt.Fprintf(w, "%d -> %d [style=dotted];\n", v, b.nodes[v].right)
			}
		}
	}
	fmt.Fprintln(w, "}")

	w.Flush()
}

func dotlabel(a int, b uint32) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, b, a)
}
