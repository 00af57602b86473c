package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/storage"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations",
		Action: func(c *cli.Context) error {
			cfg, err := parseEnv()
			if err != nil {
				return err
			}
			db, err := storage.Open(c.Context, cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return storage.Migrate(db)
		},
	}
}

func itemCommand() *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "manage the catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "add an item to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.Int64Flag{Name: "price", Usage: "price in minor units", Required: true},
					&cli.StringFlag{Name: "currency", Value: "usd"},
					&cli.StringFlag{Name: "image-url"},
				},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					item, err := deps.catalog.CreateItem(c.Context,
						c.String("name"), c.String("description"), c.Int64("price"),
						c.String("currency"), c.String("image-url"))
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{"id": item.ID, "name": item.Name}).Info("item created")
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "print the catalog",
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					items, err := deps.catalog.ListItems(c.Context)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tPRICE\tADDED")
					for _, item := range items {
						fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
							item.ID, item.Name,
							formatAmount(item.PriceCents), item.Currency.Upper(),
							humanize.Time(item.CreatedAt))
					}
					return w.Flush()
				}),
			},
		},
	}
}

func discountCommand() *cli.Command {
	return &cli.Command{
		Name:  "discount",
		Usage: "manage discounts",
		Subcommands: []*cli.Command{
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "code", Usage: "code customers enter in the cart"},
					&cli.IntFlag{Name: "percent", Required: true},
				},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					discount, err := deps.adjustments.CreateDiscount(c.Context, c.String("name"), c.String("code"), c.Int("percent"))
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{"id": discount.ID, "code": discount.Code}).Info("discount created")
					return nil
				}),
			},
			{
				Name:  "delete",
				Flags: []cli.Flag{idFlag("id")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					id, err := parseID(c, "id")
					if err != nil {
						return err
					}
					return deps.adjustments.DeleteDiscount(c.Context, id)
				}),
			},
		},
	}
}

func taxCommand() *cli.Command {
	return &cli.Command{
		Name:  "tax",
		Usage: "manage taxes",
		Subcommands: []*cli.Command{
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.IntFlag{Name: "percent", Required: true},
				},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					tax, err := deps.adjustments.CreateTax(c.Context, c.String("name"), c.Int("percent"))
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{"id": tax.ID, "percent": tax.Percent}).Info("tax created")
					return nil
				}),
			},
			{
				Name:  "delete",
				Flags: []cli.Flag{idFlag("id")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					id, err := parseID(c, "id")
					if err != nil {
						return err
					}
					return deps.adjustments.DeleteTax(c.Context, id)
				}),
			},
		},
	}
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "inspect and administer orders",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Flags: []cli.Flag{idFlag("order")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					orderID, err := parseID(c, "order")
					if err != nil {
						return err
					}
					order, err := deps.orders.GetOrder(c.Context, orderID)
					if err != nil {
						return err
					}
					summary := service.Summarize(order)
					w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
					fmt.Fprintf(w, "order\t%s (%s)\n", order.ID, order.Status)
					for _, line := range order.Lines {
						fmt.Fprintf(w, "  %s\tx%d\t%s\n", line.Item.Name, line.Quantity, formatAmount(line.Item.PriceCents*int64(line.Quantity)))
					}
					fmt.Fprintf(w, "subtotal\t\t%s\n", formatAmount(summary.Subtotal))
					fmt.Fprintf(w, "discount\t\t-%s\n", formatAmount(summary.DiscountAmount))
					fmt.Fprintf(w, "tax\t\t%s\n", formatAmount(summary.TaxAmount))
					fmt.Fprintf(w, "total\t\t%s %s\n", formatAmount(summary.Total), summary.Currency.Upper())
					return w.Flush()
				}),
			},
			{
				Name:  "set-tax",
				Flags: []cli.Flag{idFlag("order"), idFlag("tax")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					orderID, err := parseID(c, "order")
					if err != nil {
						return err
					}
					taxID, err := parseID(c, "tax")
					if err != nil {
						return err
					}
					_, err = deps.orders.AssignTax(c.Context, orderID, taxID)
					return err
				}),
			},
			{
				Name:  "clear-tax",
				Flags: []cli.Flag{idFlag("order")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					orderID, err := parseID(c, "order")
					if err != nil {
						return err
					}
					_, err = deps.orders.ClearTax(c.Context, orderID)
					return err
				}),
			},
			{
				Name:  "mark-paid",
				Usage: "record a confirmed payment",
				Flags: []cli.Flag{idFlag("order")},
				Action: withDependencies(func(c *cli.Context, deps *dependencies) error {
					orderID, err := parseID(c, "order")
					if err != nil {
						return err
					}
					return deps.orders.MarkOrderAsPaid(c.Context, orderID)
				}),
			},
		},
	}
}

func withDependencies(action func(c *cli.Context, deps *dependencies) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := parseEnv()
		if err != nil {
			return err
		}
		deps, err := newDependencies(c.Context, cfg)
		if err != nil {
			return err
		}
		defer deps.Close()
		return action(c, deps)
	}
}

func idFlag(name string) cli.Flag {
	return &cli.StringFlag{Name: name, Required: true}
}

func parseID(c *cli.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.String(name))
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid --%s", name)
	}
	return id, nil
}

func formatAmount(cents int64) string {
	return humanize.FormatFloat("#,###.##", model.MajorUnits(cents).InexactFloat64())
}
