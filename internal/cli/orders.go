package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

const (
	usageProductos = "productos list | get -id N | delete -id N"
	usagePedidos   = "pedidos list | get -id N | create -producto N -cantidad N [-yes] | update -id N -producto N -cantidad N | delete -id N"
)

func (r *Runner) subcommand(ctx context.Context, usage string, args []string, subs map[string]func(context.Context, []string) error) error {
	if len(args) == 0 {
		fmt.Fprintf(r.Stderr, "uso: purificadora %s\n", usage)
		return errUsage
	}
	run, ok := subs[args[0]]
	if !ok {
		fmt.Fprintf(r.Stderr, "subcomando desconocido: %s\nuso: purificadora %s\n", args[0], usage)
		return errUsage
	}
	return run(ctx, args[1:])
}

func (r *Runner) productos(ctx context.Context, args []string) error {
	return r.subcommand(ctx, usageProductos, args, map[string]func(context.Context, []string) error{
		"list":   r.listProducts,
		"get":    r.getProduct,
		"delete": r.deleteProduct,
	})
}

func (r *Runner) listProducts(ctx context.Context, _ []string) error {
	catalog, err := r.Products.Catalog(ctx)
	if err != nil {
		return err
	}
	if catalog.Offline {
		fmt.Fprintln(r.Stdout, "Sin conexión: mostrando el catálogo de ejemplo")
	}
	if len(catalog.Products) == 0 {
		fmt.Fprintln(r.Stdout, "No hay productos disponibles")
		return nil
	}
	w := tabwriter.NewWriter(r.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCTO\tPRECIO\tDISPONIBLE")
	for _, p := range catalog.Products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, domain.FormatMXN(p.Price), stock(p))
	}
	return w.Flush()
}

func stock(p domain.Product) string {
	if !p.InStock() {
		return "Agotado"
	}
	return fmt.Sprintf("%d", p.Quantity)
}

func (r *Runner) getProduct(ctx context.Context, args []string) error {
	id, err := r.idFlag("productos get", args)
	if err != nil {
		return err
	}
	p, err := r.Products.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "%s\n%s\nPrecio: %s\nDisponible: %s\n", p.Name, p.Description, domain.FormatMXN(p.Price), stock(*p))
	return nil
}

func (r *Runner) deleteProduct(ctx context.Context, args []string) error {
	id, err := r.idFlag("productos delete", args)
	if err != nil {
		return err
	}
	if err := r.Products.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "Producto %d eliminado\n", id)
	return nil
}

func (r *Runner) pedidos(ctx context.Context, args []string) error {
	return r.subcommand(ctx, usagePedidos, args, map[string]func(context.Context, []string) error{
		"list":   r.listOrders,
		"get":    r.getOrder,
		"create": r.createOrder,
		"update": r.updateOrder,
		"delete": r.deleteOrder,
	})
}

func (r *Runner) listOrders(ctx context.Context, _ []string) error {
	orders, err := r.Orders.List(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(r.Stdout, "No tienes pedidos")
		return nil
	}
	w := tabwriter.NewWriter(r.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCTO\tCANTIDAD\tTOTAL\tESTADO")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", o.ID, o.Product.Name, o.Quantity, domain.FormatMXN(o.Total), o.Status)
	}
	return w.Flush()
}

func (r *Runner) getOrder(ctx context.Context, args []string) error {
	id, err := r.idFlag("pedidos get", args)
	if err != nil {
		return err
	}
	o, err := r.Orders.Get(ctx, id)
	if err != nil {
		return err
	}
	r.printOrder(o)
	return nil
}

func (r *Runner) printOrder(o *domain.Order) {
	fmt.Fprintf(r.Stdout, "Pedido #%d\nProducto: %s\nCantidad: %d\nTotal: %s\nEstado: %s\n",
		o.ID, o.Product.Name, o.Quantity, domain.FormatMXN(o.Total), o.Status)
}

func (r *Runner) createOrder(ctx context.Context, args []string) error {
	fs := r.flags("pedidos create")
	var in ports.PlaceOrderInput
	fs.IntVar(&in.ProductID, "producto", 0, "id del producto")
	fs.IntVar(&in.Quantity, "cantidad", 0, "cantidad")
	yes := fs.Bool("yes", false, "no pedir confirmación")
	if err := parse(fs, args); err != nil {
		return err
	}

	q, err := r.Orders.Quote(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "Producto: %s\nCantidad: %d\nPrecio unitario: %s\nTotal: %s\n",
		q.Product.Name, q.Quantity, domain.FormatMXN(q.Product.Price), domain.FormatMXN(q.Total))
	if !*yes && !r.confirm("¿Confirmar pedido?") {
		fmt.Fprintln(r.Stdout, "Pedido cancelado")
		return nil
	}

	if r.NewIdempotencyKey != nil {
		ctx = ports.WithIdempotencyKey(ctx, r.NewIdempotencyKey())
	}
	o, err := r.Orders.Place(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "Pedido #%d creado\n", o.ID)
	return nil
}

func (r *Runner) updateOrder(ctx context.Context, args []string) error {
	fs := r.flags("pedidos update")
	id := fs.Int("id", 0, "id del pedido")
	var in ports.PlaceOrderInput
	fs.IntVar(&in.ProductID, "producto", 0, "id del producto")
	fs.IntVar(&in.Quantity, "cantidad", 0, "cantidad")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		fmt.Fprintln(r.Stderr, "-id es obligatorio")
		return errUsage
	}
	o, err := r.Orders.Update(ctx, *id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Stdout, "Pedido actualizado")
	r.printOrder(o)
	return nil
}

func (r *Runner) deleteOrder(ctx context.Context, args []string) error {
	id, err := r.idFlag("pedidos delete", args)
	if err != nil {
		return err
	}
	if err := r.Orders.Cancel(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "Pedido %d eliminado\n", id)
	return nil
}

func (r *Runner) idFlag(name string, args []string) (int, error) {
	fs := r.flags(name)
	id := fs.Int("id", 0, "id")
	if err := parse(fs, args); err != nil {
		return 0, err
	}
	if *id <= 0 {
		fmt.Fprintln(r.Stderr, "-id es obligatorio")
		return 0, errUsage
	}
	return *id, nil
}
