package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/plan-systems/klog"

	"github.com/ludic-systems/grouplay"
	"github.com/ludic-systems/grouplay/libgroup"
	"github.com/ludic-systems/grouplay/libgroup/catalog"
)

var (
	levelID = flag.String("level", "square", "built-in level to run (triangle, spinner, square, beacon)")
	dbPath  = flag.String("db", "", "progress store path (omit for in-memory)")
)

func main() {
	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	if err := runLevel(*levelID, *dbPath); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

// runLevel drives one built-in level end to end the way the game controller
// would: discover every automorphism, accept the offered subgroups, classify
// them, build the quotients, then persist the session snapshot.
func runLevel(levelID, dbPath string) error {
	def, ok := libgroup.DemoLevels()[levelID]
	if !ok {
		return fmt.Errorf("unknown level %q", levelID)
	}

	sess, err := libgroup.NewSession(def, grouplay.SessionOpts{
		OnEvent: logEvent,
	})
	if err != nil {
		return err
	}
	if err = sess.CrossCheck(); err != nil {
		return err
	}

	klog.Infof("level %q: group of order %d", def.ID, sess.GroupOrder())
	printCayley(sess)

	for _, el := range sess.Elems() {
		if _, err = sess.ValidateCandidate(el.Perm); err != nil {
			return err
		}
	}

	for _, offered := range sess.OfferedSubgroups() {
		outcome, err := sess.TryAcceptSubgroup(offered.Name, offered.Members)
		if err != nil {
			return err
		}
		if !outcome.Accepted {
			klog.Warningf("subgroup %q rejected: %d", offered.Name, outcome.Reason)
			continue
		}

		verdict, err := sess.ClaimNormal(outcome.Subgroup)
		if err != nil {
			return err
		}
		if !verdict.Correct {
			w := verdict.Witness
			klog.Infof("subgroup %q (%s) is not normal: %s conjugates %s out to %s",
				offered.Name, offered.IsoLabel, elemSym(sess, w.G), elemSym(sess, w.H), elemSym(sess, w.Conj))
			continue
		}

		q, err := sess.ConstructQuotient(outcome.Subgroup)
		if err != nil {
			return err
		}
		klog.Infof("subgroup %q (%s) is normal; quotient has order %d (%s)",
			offered.Name, offered.IsoLabel, q.Order, q.IsoLabel)
	}

	p := sess.Progress()
	klog.Infof("stage %d complete=%v (%d/%d)", sess.Stage(), sess.StageComplete(), p.Done, p.Total)

	if dbPath != "" {
		store, err := catalog.OpenStore(catalog.Opts{DbPathName: dbPath})
		if err != nil {
			return err
		}
		defer store.Close()
		if err = store.SaveSnapshot(sess.Snapshot()); err != nil {
			return err
		}
		klog.Infof("snapshot saved to %s", dbPath)
	}

	return nil
}

func elemSym(sess grouplay.Session, id grouplay.ElemID) string {
	return sess.Elems()[id].Sym
}

func logEvent(ev grouplay.Event) {
	klog.V(2).Infof("event kind=%d stage=%d elem=%d subgroup=%d", ev.Kind, ev.Stage, ev.Elem, ev.Subgroup)
}

// printCayley writes the full composition table with symbolic labels.
func printCayley(sess grouplay.Session) {
	elems := sess.Elems()
	ids := make([]grouplay.ElemID, len(elems))
	for i := range elems {
		ids[i] = elems[i].ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%6s", "*")
	for _, j := range ids {
		fmt.Fprintf(&b, "%6s", elems[j].Sym)
	}
	b.WriteByte('\n')
	for _, i := range ids {
		fmt.Fprintf(&b, "%6s", elems[i].Sym)
		for _, j := range ids {
			prod, err := sess.Product(i, j)
			if err != nil {
				fmt.Fprintf(&b, "%6s", "?")
				continue
			}
			fmt.Fprintf(&b, "%6s", elems[prod].Sym)
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
